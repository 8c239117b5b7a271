package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrNumberExhausted   = errors.New("no se pudo generar un número de factura único")
	ErrMailNotConfigured = errors.New("servicio de correo no configurado")
)
