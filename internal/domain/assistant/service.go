package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"dnipets-backend/internal/platform/logger"
	"dnipets-backend/internal/ports/genai"
)

var ErrInvalidInput = errors.New("invalid input")

// Instrucción de sistema del chat. El modelo identifica razas por foto
// y siempre aclara que no sustituye la consulta veterinaria.
const chatSystemInstruction = "Eres un asistente veterinario experto para la app DNIPETS. " +
	"Eres amable, breve y empático. Das consejos útiles sobre salud, pero SIEMPRE aclaras " +
	"que 'esto no sustituye una consulta veterinaria' si el caso parece grave. " +
	"Identificas razas de perros y gatos."

// Sufijo fijo de estilo para la generación de retratos.
const imageStyleSuffix = " style of a high quality pet portrait, cute, friendly"

// Message es un turno del historial que manda el cliente. ImageData es
// una imagen inline opcional (ya decodificada de la data URL).
type Message struct {
	Role      string
	Text      string
	ImageMIME string
	ImageData []byte
}

// ImageGenerationResult lleva la imagen como data URL lista para <img>.
type ImageGenerationResult struct {
	DataURL string
	// Refusal trae el texto del modelo cuando contestó con palabras en
	// vez de imagen; DataURL queda vacío.
	Refusal string
}

type Service struct {
	ai  genai.Client
	log logger.Logger
}

func NewService(ai genai.Client, log logger.Logger) *Service {
	return &Service{
		ai:  ai,
		log: log.With(map[string]any{"module": "assistant"}),
	}
}

// StreamChat arma el request multimodal y retransmite los fragmentos de
// texto vía emit.
func (s *Service) StreamChat(ctx context.Context, history []Message, emit func(chunk string) error) error {
	if len(history) == 0 {
		return ErrInvalidInput
	}

	req := genai.ChatRequest{SystemInstruction: chatSystemInstruction}
	for _, m := range history {
		role := m.Role
		if role != "model" {
			role = "user"
		}
		turn := genai.Turn{Role: role}
		if len(m.ImageData) > 0 {
			turn.Parts = append(turn.Parts, genai.Part{InlineData: &genai.Blob{
				MIMEType: m.ImageMIME,
				Data:     m.ImageData,
			}})
		}
		if strings.TrimSpace(m.Text) != "" {
			turn.Parts = append(turn.Parts, genai.Part{Text: m.Text})
		}
		if len(turn.Parts) == 0 {
			continue
		}
		req.Turns = append(req.Turns, turn)
	}
	if len(req.Turns) == 0 {
		return ErrInvalidInput
	}

	return s.ai.StreamChat(ctx, req, emit)
}

// GenerateImage genera el retrato. Un rechazo del modelo no es error de
// la operación: el texto vuelve en Refusal para mostrarlo tal cual.
func (s *Service) GenerateImage(ctx context.Context, prompt string) (ImageGenerationResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ImageGenerationResult{}, ErrInvalidInput
	}

	img, err := s.ai.GenerateImage(ctx, prompt+imageStyleSuffix)
	if err != nil {
		var refusal *genai.RefusalError
		if errors.As(err, &refusal) {
			return ImageGenerationResult{Refusal: refusal.Message}, nil
		}
		s.log.Error("image generation failed", map[string]any{"error": err.Error()})
		return ImageGenerationResult{}, err
	}

	dataURL := "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	return ImageGenerationResult{DataURL: dataURL}, nil
}
