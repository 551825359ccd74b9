package genai

import (
	"context"
	"fmt"
)

// Part es una pieza de contenido multimodal: texto o bytes inline.
type Part struct {
	Text       string
	InlineData *Blob
}

type Blob struct {
	MIMEType string
	Data     []byte
}

// Turn es un mensaje del historial de conversación.
type Turn struct {
	Role  string // "user" | "model"
	Parts []Part
}

type ChatRequest struct {
	SystemInstruction string
	Turns             []Turn
}

type ImageResult struct {
	MIMEType string
	Data     []byte
}

// RefusalError: el modelo respondió texto en vez de imagen (rechazo o
// pedido de aclaración). El texto se muestra tal cual al usuario.
type RefusalError struct {
	Message string
}

func (e *RefusalError) Error() string {
	return fmt.Sprintf("image generation refused: %s", e.Message)
}

// Client es el proveedor de IA generativa visto por los módulos de
// dominio. Una sola implementación real (Gemini); los tests inyectan
// fakes.
type Client interface {
	// StreamChat emite el texto de respuesta en fragmentos vía emit.
	// Un error de emit aborta el stream.
	StreamChat(ctx context.Context, req ChatRequest, emit func(chunk string) error) error

	// GenerateImage devuelve la imagen generada, o *RefusalError si el
	// modelo contestó con texto.
	GenerateImage(ctx context.Context, prompt string) (ImageResult, error)

	// DialLive abre una sesión bidireccional de audio en vivo.
	DialLive(ctx context.Context, cfg LiveConfig, cb LiveCallbacks) (LiveSession, error)
}

type LiveConfig struct {
	Model              string
	Voice              string
	SystemInstruction  string
	ResponseModalities []string
}

// LiveCallbacks recibe los eventos del upstream. OnAudio entrega PCM
// crudo ya decodificado de base64; OnClose se llama una sola vez.
type LiveCallbacks struct {
	OnOpen  func()
	OnAudio func(pcm []byte)
	OnClose func(err error)
}

// LiveSession es el lado de escritura de la sesión en vivo.
type LiveSession interface {
	SendAudio(pcm []byte) error
	SendImage(jpeg []byte) error
	Close() error
}
