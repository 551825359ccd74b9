package gemini

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dnipets-backend/internal/ports/genai"
)

// StreamChat llama a streamGenerateContent con alt=sse y va emitiendo
// el texto de cada evento a medida que llega.
func (c *Client) StreamChat(ctx context.Context, req genai.ChatRequest, emit func(chunk string) error) error {
	if !c.IsConfigured() {
		return errors.New("gemini: api key not configured")
	}

	body, err := json.Marshal(buildGenerateRequest(req.SystemInstruction, req.Turns))
	if err != nil {
		return fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := c.baseURL + c.modelPath(ModelChat, "streamGenerateContent") + "&alt=sse"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("gemini: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gemini: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("gemini: chat stream status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			break
		}

		var event generateResponse
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			// Evento malformado: se saltea, el stream sigue.
			continue
		}
		for _, text := range textParts(event) {
			if err := emit(text); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("gemini: read stream: %w", err)
	}
	return nil
}

func buildGenerateRequest(system string, turns []genai.Turn) generateRequest {
	out := generateRequest{}
	if strings.TrimSpace(system) != "" {
		out.SystemInstruction = &wireContent{Parts: []wirePart{{Text: system}}}
	}

	for _, t := range turns {
		wc := wireContent{Role: t.Role}
		for _, p := range t.Parts {
			wp := wirePart{Text: p.Text}
			if p.InlineData != nil {
				wp.InlineData = &wireBlob{
					MIMEType: p.InlineData.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(p.InlineData.Data),
				}
			}
			wc.Parts = append(wc.Parts, wp)
		}
		out.Contents = append(out.Contents, wc)
	}
	return out
}

func textParts(resp generateResponse) []string {
	if len(resp.Candidates) == 0 {
		return nil
	}
	var out []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			out = append(out, p.Text)
		}
	}
	return out
}
