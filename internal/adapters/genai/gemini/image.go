package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dnipets-backend/internal/ports/genai"
)

// GenerateImage pide una imagen al modelo de imagen. El modelo puede
// contestar con texto (rechazo de policy o pedido de aclaración); eso
// se devuelve como *genai.RefusalError para que la UI lo muestre.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (genai.ImageResult, error) {
	if !c.IsConfigured() {
		return genai.ImageResult{}, errors.New("gemini: api key not configured")
	}

	req := generateRequest{
		Contents: []wireContent{{
			Role:  "user",
			Parts: []wirePart{{Text: prompt}},
		}},
	}

	var resp generateResponse
	err := c.http.DoJSON(ctx, http.MethodPost, c.modelPath(ModelImage, "generateContent"), nil, req, &resp)
	if err != nil {
		return genai.ImageResult{}, fmt.Errorf("gemini: generate image: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return genai.ImageResult{}, errors.New("gemini: empty image response")
	}

	var refusal string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return genai.ImageResult{}, fmt.Errorf("gemini: decode image: %w", err)
			}
			mime := p.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return genai.ImageResult{MIMEType: mime, Data: data}, nil
		}
		if strings.TrimSpace(p.Text) != "" {
			refusal = strings.TrimSpace(p.Text)
		}
	}

	if refusal != "" {
		return genai.ImageResult{}, &genai.RefusalError{Message: refusal}
	}
	return genai.ImageResult{}, errors.New("gemini: no image data in response")
}
