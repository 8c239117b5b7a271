package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/jhoicas/voiceinvoice-api/internal/application/ports"
)

var _ ports.AudioTranscriber = (*WhisperService)(nil)

const (
	whisperTranscriptionsURL = "https://api.openai.com/v1/audio/transcriptions"
	whisperModel             = "whisper-1"
)

// WhisperService transcribe audio vía la API de OpenAI (Whisper).
type WhisperService struct {
	apiKey     string
	httpClient *http.Client
}

// NewWhisperService construye el adaptador. apiKey vacío deja el servicio
// deshabilitado con error descriptivo.
func NewWhisperService(apiKey string) *WhisperService {
	return &WhisperService{
		apiKey: apiKey,
		httpClient: &http.Client{
			// La transcripción de audio es lenta; margen amplio.
			Timeout: 60 * time.Second,
		},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type openAIErrorResponse struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe envía el audio como multipart/form-data y devuelve el texto.
func (s *WhisperService) Transcribe(ctx context.Context, filename, contentType string, audio []byte) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("AI: construir multipart: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("AI: escribir audio: %w", err)
	}
	if err := writer.WriteField("model", whisperModel); err != nil {
		return "", fmt.Errorf("AI: construir multipart: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("AI: cerrar multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, whisperTranscriptionsURL, &buf)
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIErrorResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: OpenAI error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: OpenAI HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(rawBody, &result); err != nil {
		return "", fmt.Errorf("AI: deserializar transcripción: %w", err)
	}
	return result.Text, nil
}
