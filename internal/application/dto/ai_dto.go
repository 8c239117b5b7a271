package dto

// GenerateInvoiceRequest body de POST /api/ai/generate.
// CurrentInvoice es el documento candidato en curso (opcional); el extractor
// lo toma como base y aplica la instrucción del mensaje.
type GenerateInvoiceRequest struct {
	Message        string               `json:"message"`
	CurrentInvoice *CandidateInvoiceDTO `json:"currentInvoice,omitempty"`
}

// GenerateInvoiceResponse documento candidato actualizado más la respuesta
// conversacional del asistente.
type GenerateInvoiceResponse struct {
	Invoice *CandidateInvoiceDTO `json:"invoice"`
	Reply   string               `json:"reply,omitempty"`
}

// TranscribeResponse respuesta de POST /api/ai/transcribe.
type TranscribeResponse struct {
	Text string `json:"text"`
}
