// Package usecase contiene los casos de uso de la frontera de IA
// (extracción de facturas y transcripción de voz).
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/application/ports"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
	domainbilling "github.com/jhoicas/voiceinvoice-api/internal/domain/billing"
)

// maxAudioBytes tamaño máximo del archivo de audio aceptado (25 MB).
const maxAudioBytes = 25 * 1024 * 1024

// AIUseCase orquesta las llamadas a los productores opacos de IA.
// No contiene lógica de comprensión de lenguaje: valida la entrada, delega y
// devuelve lo que el proveedor produjo.
type AIUseCase struct {
	extractor   ports.InvoiceExtractor
	transcriber ports.AudioTranscriber
}

// NewAIUseCase construye el caso de uso.
func NewAIUseCase(extractor ports.InvoiceExtractor, transcriber ports.AudioTranscriber) *AIUseCase {
	return &AIUseCase{extractor: extractor, transcriber: transcriber}
}

// GenerateInvoice pide al extractor un documento candidato actualizado a
// partir del mensaje del usuario y del candidato en curso.
func (uc *AIUseCase) GenerateInvoice(ctx context.Context, in dto.GenerateInvoiceRequest) (*dto.GenerateInvoiceResponse, error) {
	message, err := domainbilling.ValidateUserMessage(in.Message)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	out, err := uc.extractor.ExtractInvoice(ctx, message, in.CurrentInvoice)
	if err != nil {
		return nil, fmt.Errorf("extraer factura: %w", err)
	}
	return out, nil
}

// TranscribeAudio transcribe un archivo de audio (≤25 MB, tipo audio/*).
func (uc *AIUseCase) TranscribeAudio(ctx context.Context, filename, contentType string, audio []byte) (*dto.TranscribeResponse, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: archivo de audio vacío", domain.ErrInvalidInput)
	}
	if len(audio) > maxAudioBytes {
		return nil, fmt.Errorf("%w: el archivo de audio no puede superar 25MB", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(contentType, "audio/") {
		return nil, fmt.Errorf("%w: el archivo debe ser de tipo audio", domain.ErrInvalidInput)
	}
	text, err := uc.transcriber.Transcribe(ctx, filename, contentType, audio)
	if err != nil {
		return nil, fmt.Errorf("transcribir audio: %w", err)
	}
	return &dto.TranscribeResponse{Text: text}, nil
}
