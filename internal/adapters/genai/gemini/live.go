package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dnipets-backend/internal/ports/genai"
)

const liveEndpointPath = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

const (
	liveMimeAudio = "audio/pcm;rate=16000"
	liveMimeImage = "image/jpeg"
)

// Mensajes del protocolo BidiGenerateContent (subset usado).

type liveSetupMessage struct {
	Setup liveSetup `json:"setup"`
}

type liveSetup struct {
	Model             string               `json:"model"`
	GenerationConfig  liveGenerationConfig `json:"generationConfig"`
	SystemInstruction *liveContent         `json:"systemInstruction,omitempty"`
}

type liveGenerationConfig struct {
	ResponseModalities []string          `json:"responseModalities,omitempty"`
	SpeechConfig       *liveSpeechConfig `json:"speechConfig,omitempty"`
}

type liveSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type liveContent struct {
	Parts []struct {
		Text string `json:"text,omitempty"`
	} `json:"parts"`
}

type liveClientMessage struct {
	RealtimeInput *liveRealtimeInput `json:"realtimeInput,omitempty"`
}

type liveRealtimeInput struct {
	MediaChunks []liveMediaChunk `json:"mediaChunks"`
}

type liveMediaChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type liveServerMessage struct {
	SetupComplete *struct{} `json:"setupComplete,omitempty"`
	ServerContent *struct {
		ModelTurn *struct {
			Parts []struct {
				InlineData *struct {
					MIMEType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"modelTurn,omitempty"`
		TurnComplete bool `json:"turnComplete,omitempty"`
	} `json:"serverContent,omitempty"`
}

// DialLive abre el websocket bidireccional contra el modelo de audio
// nativo, manda el setup y arranca el read loop. Los callbacks corren
// en la goroutine del read loop.
func (c *Client) DialLive(ctx context.Context, cfg genai.LiveConfig, cb genai.LiveCallbacks) (genai.LiveSession, error) {
	if !c.IsConfigured() {
		return nil, errors.New("gemini: api key not configured")
	}

	model := cfg.Model
	if model == "" {
		model = ModelLive
	}
	voice := cfg.Voice
	if voice == "" {
		voice = VoiceDefault
	}

	wsURL := strings.Replace(c.baseURL, "https://", "wss://", 1) + liveEndpointPath + "?key=" + c.apiKey

	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: dial live: %w", err)
	}

	setup := liveSetupMessage{Setup: liveSetup{
		Model: "models/" + model,
		GenerationConfig: liveGenerationConfig{
			ResponseModalities: cfg.ResponseModalities,
			SpeechConfig:       &liveSpeechConfig{},
		},
	}}
	setup.Setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voice
	if strings.TrimSpace(cfg.SystemInstruction) != "" {
		sc := &liveContent{}
		sc.Parts = append(sc.Parts, struct {
			Text string `json:"text,omitempty"`
		}{Text: cfg.SystemInstruction})
		setup.Setup.SystemInstruction = sc
	}

	if err := conn.WriteJSON(setup); err != nil {
		conn.Close()
		return nil, fmt.Errorf("gemini: send setup: %w", err)
	}

	sess := &liveSession{conn: conn}
	go sess.readLoop(cb)

	return sess, nil
}

type liveSession struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	closeMu sync.Mutex
	closed  bool
}

func (s *liveSession) readLoop(cb genai.LiveCallbacks) {
	opened := false
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if cb.OnClose != nil {
				if s.isClosed() {
					cb.OnClose(nil)
				} else {
					cb.OnClose(err)
				}
			}
			return
		}

		var msg liveServerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		if msg.SetupComplete != nil && !opened {
			opened = true
			if cb.OnOpen != nil {
				cb.OnOpen()
			}
			continue
		}

		if msg.ServerContent == nil || msg.ServerContent.ModelTurn == nil {
			continue
		}
		for _, p := range msg.ServerContent.ModelTurn.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				continue
			}
			if cb.OnAudio != nil {
				cb.OnAudio(pcm)
			}
		}
	}
}

func (s *liveSession) SendAudio(pcm []byte) error {
	return s.sendChunk(liveMimeAudio, pcm)
}

func (s *liveSession) SendImage(jpeg []byte) error {
	return s.sendChunk(liveMimeImage, jpeg)
}

func (s *liveSession) sendChunk(mime string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if s.isClosed() {
		return errors.New("gemini: live session closed")
	}

	msg := liveClientMessage{RealtimeInput: &liveRealtimeInput{
		MediaChunks: []liveMediaChunk{{
			MIMEType: mime,
			Data:     base64.StdEncoding.EncodeToString(data),
		}},
	}}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

// Close es idempotente: marca la sesión cerrada y cierra el socket, lo
// que desbloquea el read loop.
func (s *liveSession) Close() error {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return nil
	}
	s.closed = true
	s.closeMu.Unlock()

	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(2*time.Second))
	s.writeMu.Unlock()

	return s.conn.Close()
}

func (s *liveSession) isClosed() bool {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	return s.closed
}
