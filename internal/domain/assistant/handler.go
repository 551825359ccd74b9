package assistant

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dnipets-backend/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/assistant/chat", chatHandler(svc))
	r.Post("/assistant/images", imageHandler(svc))
}

type messagePayload struct {
	Role string `json:"role"`
	Text string `json:"text"`
	// Image es una data URL opcional (data:image/...;base64,...).
	Image string `json:"image,omitempty"`
}

type chatPayload struct {
	Messages []messagePayload `json:"messages"`
}

type imagePayload struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	ImageURL  string     `json:"image_url,omitempty"`
	Prompt    string     `json:"prompt"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Refusal   string     `json:"refusal,omitempty"`
}

// chatHandler godoc
// @Summary Chat con el asistente veterinario (streaming SSE)
// @Tags assistant
// @Router /assistant/chat [post]
func chatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req chatPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		history := make([]Message, 0, len(req.Messages))
		for _, m := range req.Messages {
			msg := Message{Role: m.Role, Text: m.Text}
			if m.Image != "" {
				mime, data, err := parseDataURL(m.Image)
				if err != nil {
					http.Error(w, "invalid image data url", http.StatusBadRequest)
					return
				}
				msg.ImageMIME = mime
				msg.ImageData = data
			}
			history = append(history, msg)
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		err := svc.StreamChat(r.Context(), history, func(chunk string) error {
			payload, err := json.Marshal(map[string]string{"text": chunk})
			if err != nil {
				return err
			}
			if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		})
		if err != nil {
			// El content-type SSE ya salió: el error viaja como evento.
			if errors.Is(err, ErrInvalidInput) {
				_, _ = w.Write([]byte("event: error\ndata: {\"message\":\"empty chat history\"}\n\n"))
				flusher.Flush()
				return
			}
			_, _ = w.Write([]byte("event: error\ndata: {\"message\":\"assistant unavailable\"}\n\n"))
			flusher.Flush()
			return
		}

		_, _ = w.Write([]byte("data: [DONE]\n\n"))
		flusher.Flush()
	}
}

// imageHandler godoc
// @Summary Genera un retrato de mascota a partir de un prompt
// @Tags assistant
// @Router /assistant/images [post]
func imageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req imagePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.GenerateImage(r.Context(), req.Prompt)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "prompt is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "No se pudo generar la imagen. Intenta con otra descripción.", http.StatusBadGateway)
			return
		}

		out := imageResponse{
			ImageURL: res.DataURL,
			Prompt:   req.Prompt,
			Refusal:  res.Refusal,
		}
		if res.DataURL != "" {
			now := time.Now()
			out.CreatedAt = &now
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// parseDataURL separa "data:<mime>;base64,<payload>".
func parseDataURL(raw string) (string, []byte, error) {
	if !strings.HasPrefix(raw, "data:") {
		return "", nil, errors.New("not a data url")
	}
	rest := strings.TrimPrefix(raw, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data url")
	}
	mime := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mime, data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
