package live

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"dnipets-backend/internal/middleware"
	"dnipets-backend/internal/platform/logger"
	"dnipets-backend/internal/ports/genai"
)

// Instrucción de sistema de la sesión de voz.
const voiceSystemInstruction = "Eres un asistente de voz experto en mascotas para DNIPETS. " +
	"Eres amigable y breve. Ayudas a los dueños con consejos mientras pasean o juegan."

var upgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	// CORS ya corre a nivel router; el upgrade no re-chequea origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type clientMessage struct {
	Type string `json:"type"` // "audio" | "frame" | "stop"
	Data string `json:"data,omitempty"`
}

type serverMessage struct {
	Type      string `json:"type"` // "status" | "audio" | "error"
	Status    string `json:"status,omitempty"`
	Data      string `json:"data,omitempty"` // base64 PCM16 24kHz
	StartInMS int64  `json:"start_in_ms,omitempty"`
	Message   string `json:"message,omitempty"`
}

func RegisterRoutes(r chi.Router, ai genai.Client, log logger.Logger) {
	r.Get("/live/ws", liveHandler(ai, log))
}

// liveHandler godoc
// @Summary Sesión de voz en vivo (websocket)
// @Tags live
// @Router /live/ws [get]
func liveHandler(ai genai.Client, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if ai == nil {
			http.Error(w, "voice assistant not configured", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		outbound := make(chan serverMessage, 64)
		done := make(chan struct{})
		defer close(done)

		// Un solo writer por conexión websocket.
		go func() {
			for {
				select {
				case msg := <-outbound:
					if err := conn.WriteJSON(msg); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		emit := func(ev Event) {
			msg := serverMessage{Type: ev.Type, Message: ev.Message}
			if ev.Type == "status" {
				msg.Status = string(ev.Status)
			}
			if ev.Type == "audio" {
				msg.Data = base64.StdEncoding.EncodeToString(ev.Audio)
				msg.StartInMS = ev.StartIn.Milliseconds()
			}
			select {
			case outbound <- msg:
			default:
				// Cliente lento: audio atrasado se descarta antes de
				// bloquear el read loop del upstream.
			}
		}

		session := NewSession(emit, log)
		defer session.Stop()

		session.Connecting()

		up, err := ai.DialLive(r.Context(), genai.LiveConfig{
			SystemInstruction:  voiceSystemInstruction,
			ResponseModalities: []string{"AUDIO"},
		}, genai.LiveCallbacks{
			OnOpen:  session.HandleOpen,
			OnAudio: session.HandleAudio,
			OnClose: session.HandleClose,
		})
		if err != nil {
			log.Warn("live dial failed", map[string]any{"error": err.Error()})
			emit(Event{Type: "error", Message: "could not start voice session"})
			emit(Event{Type: "status", Status: StateDisconnected})
			return
		}
		session.BindUpstream(up)

		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			switch msg.Type {
			case "audio":
				pcm, err := base64.StdEncoding.DecodeString(msg.Data)
				if err != nil {
					continue
				}
				session.SendAudio(pcm)
			case "frame":
				jpeg, err := base64.StdEncoding.DecodeString(msg.Data)
				if err != nil {
					continue
				}
				session.SendImage(jpeg)
			case "stop":
				return
			}
		}
	}
}
