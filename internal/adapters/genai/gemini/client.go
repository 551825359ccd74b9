// Package gemini implementa el port genai contra la API de Google
// Generative Language (REST para chat/imagen, websocket para live).
package gemini

import (
	"strings"
	"time"

	"dnipets-backend/internal/platform/httpclient"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	apiVersion     = "v1beta"

	// Modelos fijos por feature. El de live es un preview de audio
	// nativo; si Google lo rota hay que actualizar acá.
	ModelChat  = "gemini-1.5-flash"
	ModelImage = "gemini-2.5-flash-image"
	ModelLive  = "gemini-2.5-flash-native-audio-preview-09-2025"

	// Voz default de las sesiones de voz.
	VoiceDefault = "Zephyr"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		// Generación de imágenes tarda bastante más que el resto.
		timeout = 60 * time.Second
	}

	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: base,
		http:    httpclient.New(base, timeout),
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) modelPath(model, method string) string {
	return "/" + apiVersion + "/models/" + model + ":" + method + "?key=" + c.apiKey
}

// Tipos del wire format REST compartidos por chat e imagen.

type wirePart struct {
	Text       string    `json:"text,omitempty"`
	InlineData *wireBlob `json:"inline_data,omitempty"`
}

type wireBlob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *wireContent  `json:"system_instruction,omitempty"`
	Contents          []wireContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
}
