// Package ports define los puertos de salida hacia servicios de IA.
// El núcleo los trata como productores opacos: no hay lógica de comprensión
// de lenguaje natural propia en este repo.
package ports

import (
	"context"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
)

// InvoiceExtractor produce un documento candidato a partir de un mensaje de
// chat y del candidato en curso. Implementación concreta: API de Anthropic.
type InvoiceExtractor interface {
	ExtractInvoice(ctx context.Context, message string, current *dto.CandidateInvoiceDTO) (*dto.GenerateInvoiceResponse, error)
}

// AudioTranscriber transcribe un archivo de audio a texto.
// Implementación concreta: OpenAI Whisper.
type AudioTranscriber interface {
	Transcribe(ctx context.Context, filename, contentType string, audio []byte) (string, error)
}
