package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"dnipets-backend/internal/adapters/auth/gotrue"
	"dnipets-backend/internal/adapters/genai/gemini"
	"dnipets-backend/internal/config"
	"dnipets-backend/internal/platform/logger"
	"dnipets-backend/internal/ports/auth"
	"dnipets-backend/internal/ports/genai"
	"dnipets-backend/internal/router"
)

// @title DNIPETS API
// @version 1.0
// @description Backend de identidad y acompañamiento de mascotas: perfiles, QR público, historial de salud y asistente.
// @BasePath /
func main() {
	// .env es opcional; en producción la config viene del entorno.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewFromEnv()

	var (
		verifier auth.AuthVerifier
		provider auth.Provider
	)
	if cfg.AuthURL != "" && cfg.AuthAnonKey != "" {
		client := gotrue.NewClient(gotrue.Config{
			BaseURL: cfg.AuthURL,
			AnonKey: cfg.AuthAnonKey,
		})
		verifier = gotrue.NewVerifier(client)
		provider = client
	} else {
		log.Warn("auth provider not configured, running in dev mode", nil)
	}

	var ai genai.Client
	if cfg.GeminiAPIKey != "" {
		ai = gemini.NewClient(gemini.Config{APIKey: cfg.GeminiAPIKey})
	} else {
		log.Warn("GEMINI_API_KEY not set, assistant disabled", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier:   verifier,
		AuthProvider:   provider,
		AI:             ai,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// Sin Read/WriteTimeout globales: el chat SSE y el websocket de
		// voz son conexiones largas. Los requests comunes quedan
		// acotados por estos dos.
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
	}
}
