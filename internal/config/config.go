package config

import (
	"os"
	"strings"
)

// Config agrupa toda la configuración del servicio, leída de env vars.
// Los clientes externos (auth, AI) quedan deshabilitados si faltan sus keys.
type Config struct {
	Port string

	// Postgres. Vacío => repos in-memory (modo dev).
	DBDSN string

	// Servicio de auth hosteado (GoTrue / Supabase).
	AuthURL     string
	AuthAnonKey string

	// Servicio de inferencia generativa.
	GeminiAPIKey string

	// CORS: orígenes permitidos para el cliente web.
	AllowedOrigins []string

	Env string // development, production
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBDSN:          os.Getenv("DB_DSN"),
		AuthURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("AUTH_URL")), "/"),
		AuthAnonKey:    strings.TrimSpace(os.Getenv("AUTH_ANON_KEY")),
		GeminiAPIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		Env:            strings.ToLower(getEnv("ENV", "development")),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseOrigins(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
