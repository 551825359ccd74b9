package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dnipets-backend/internal/platform/logger"
	"dnipets-backend/internal/ports/genai"
)

type fakeAI struct {
	lastChat   genai.ChatRequest
	chatChunks []string
	chatErr    error

	lastPrompt string
	image      genai.ImageResult
	imageErr   error
}

func (f *fakeAI) StreamChat(ctx context.Context, req genai.ChatRequest, emit func(string) error) error {
	f.lastChat = req
	if f.chatErr != nil {
		return f.chatErr
	}
	for _, c := range f.chatChunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAI) GenerateImage(ctx context.Context, prompt string) (genai.ImageResult, error) {
	f.lastPrompt = prompt
	return f.image, f.imageErr
}

func (f *fakeAI) DialLive(ctx context.Context, cfg genai.LiveConfig, cb genai.LiveCallbacks) (genai.LiveSession, error) {
	return nil, errors.New("not implemented")
}

func TestStreamChatBuildsMultimodalRequest(t *testing.T) {
	ai := &fakeAI{chatChunks: []string{"Hola", ", soy tu asistente."}}
	svc := NewService(ai, logger.Nop())

	history := []Message{
		{Role: "user", Text: "¿Qué raza es?", ImageMIME: "image/jpeg", ImageData: []byte{0xff, 0xd8}},
		{Role: "model", Text: "Parece un beagle."},
		{Role: "otra-cosa", Text: "Gracias"},
	}

	var got strings.Builder
	err := svc.StreamChat(context.Background(), history, func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamChat: %v", err)
	}
	if got.String() != "Hola, soy tu asistente." {
		t.Fatalf("stream = %q", got.String())
	}

	if !strings.Contains(ai.lastChat.SystemInstruction, "asistente veterinario") {
		t.Fatalf("system instruction = %q", ai.lastChat.SystemInstruction)
	}
	if len(ai.lastChat.Turns) != 3 {
		t.Fatalf("turns = %d", len(ai.lastChat.Turns))
	}
	// La imagen va antes del texto en el mismo turno.
	first := ai.lastChat.Turns[0]
	if first.Role != "user" || len(first.Parts) != 2 || first.Parts[0].InlineData == nil {
		t.Fatalf("primer turno mal armado: %+v", first)
	}
	// Roles desconocidos se degradan a "user".
	if ai.lastChat.Turns[2].Role != "user" {
		t.Fatalf("rol del tercer turno = %q", ai.lastChat.Turns[2].Role)
	}
}

func TestStreamChatEmptyHistory(t *testing.T) {
	svc := NewService(&fakeAI{}, logger.Nop())
	err := svc.StreamChat(context.Background(), nil, func(string) error { return nil })
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateImageAppendsStyleSuffix(t *testing.T) {
	ai := &fakeAI{image: genai.ImageResult{MIMEType: "image/png", Data: []byte{1, 2, 3}}}
	svc := NewService(ai, logger.Nop())

	res, err := svc.GenerateImage(context.Background(), "un gato naranja")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if !strings.HasPrefix(ai.lastPrompt, "un gato naranja") ||
		!strings.Contains(ai.lastPrompt, "pet portrait") {
		t.Fatalf("prompt = %q", ai.lastPrompt)
	}
	if !strings.HasPrefix(res.DataURL, "data:image/png;base64,") {
		t.Fatalf("data url = %q", res.DataURL)
	}
}

func TestGenerateImageSurfacesRefusal(t *testing.T) {
	ai := &fakeAI{imageErr: &genai.RefusalError{Message: "No puedo generar eso."}}
	svc := NewService(ai, logger.Nop())

	res, err := svc.GenerateImage(context.Background(), "algo raro")
	if err != nil {
		t.Fatalf("un rechazo no es error de la operación: %v", err)
	}
	if res.Refusal != "No puedo generar eso." || res.DataURL != "" {
		t.Fatalf("res = %+v", res)
	}
}
