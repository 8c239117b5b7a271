package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/application/usecase"
	"github.com/jhoicas/voiceinvoice-api/internal/domain"
)

type fakeExtractor struct {
	calls    int
	lastMsg  string
	response *dto.GenerateInvoiceResponse
	err      error
}

func (f *fakeExtractor) ExtractInvoice(_ context.Context, message string, _ *dto.CandidateInvoiceDTO) (*dto.GenerateInvoiceResponse, error) {
	f.calls++
	f.lastMsg = message
	return f.response, f.err
}

type fakeTranscriber struct {
	calls int
	text  string
	err   error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _, _ string, _ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestGenerateInvoice_MensajeInvalido(t *testing.T) {
	extractor := &fakeExtractor{}
	uc := usecase.NewAIUseCase(extractor, &fakeTranscriber{})

	_, err := uc.GenerateInvoice(context.Background(), dto.GenerateInvoiceRequest{Message: "   "})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, extractor.calls, "el extractor no debe invocarse con entrada inválida")
}

func TestGenerateInvoice_DelegaAlExtractor(t *testing.T) {
	extractor := &fakeExtractor{response: &dto.GenerateInvoiceResponse{Reply: "ok"}}
	uc := usecase.NewAIUseCase(extractor, &fakeTranscriber{})

	out, err := uc.GenerateInvoice(context.Background(), dto.GenerateInvoiceRequest{Message: "  factura para Acme  "})

	require.NoError(t, err)
	assert.Equal(t, "ok", out.Reply)
	assert.Equal(t, "factura para Acme", extractor.lastMsg, "el mensaje llega recortado al extractor")
}

func TestTranscribeAudio_ValidaLaEntrada(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		audio       []byte
	}{
		{"archivo vacío", "audio/webm", nil},
		{"archivo demasiado grande", "audio/webm", make([]byte, 25*1024*1024+1)},
		{"tipo no-audio", "application/pdf", []byte("datos")},
		{"tipo vacío", "", []byte("datos")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transcriber := &fakeTranscriber{text: "hola"}
			uc := usecase.NewAIUseCase(&fakeExtractor{}, transcriber)

			_, err := uc.TranscribeAudio(context.Background(), "nota.bin", tc.contentType, tc.audio)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Equal(t, 0, transcriber.calls, "el transcriptor no debe invocarse con entrada inválida")
		})
	}
}

func TestTranscribeAudio_DelegaAlTranscriptor(t *testing.T) {
	transcriber := &fakeTranscriber{text: "factura para Acme de mil euros"}
	uc := usecase.NewAIUseCase(&fakeExtractor{}, transcriber)

	out, err := uc.TranscribeAudio(context.Background(), "nota.webm", "audio/webm", []byte("datos"))

	require.NoError(t, err)
	assert.Equal(t, "factura para Acme de mil euros", out.Text)
	assert.Equal(t, 1, transcriber.calls)
}
