package live

import "time"

const (
	// El micrófono sube PCM16 mono a 16 kHz; el modelo responde a 24 kHz.
	InputSampleRate  = 16000
	OutputSampleRate = 24000

	// Cadencia máxima de frames de cámara hacia el modelo.
	FrameInterval = time.Second
)

// EncodePCM16 convierte samples float32 [-1, 1] a PCM16 little-endian.
// La escala es asimétrica (0x8000 para negativos, 0x7FFF para
// positivos) para cubrir el rango completo de int16.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}

		var v int16
		if s < 0 {
			v = int16(s * 0x8000)
		} else {
			v = int16(s * 0x7FFF)
		}

		out[2*i] = byte(v)
		out[2*i+1] = byte(uint16(v) >> 8)
	}
	return out
}

// PCMDuration calcula cuánto dura un buffer PCM16 mono al sample rate
// dado (2 bytes por sample).
func PCMDuration(nBytes, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	samples := nBytes / 2
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
