package billing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// NumberPattern es el contrato externo bit-exacto del número de factura.
var NumberPattern = regexp.MustCompile(`^INV-\d{8}-[0-9A-F]{4}$`)

// NewInvoiceNumber genera un número candidato INV-<YYYYMMDD>-<XXXX>.
//
// El segmento de fecha es la fecha de generación (no la fecha de la factura)
// y el sufijo son 4 caracteres hexadecimales de crypto/rand, no un contador
// predecible. La unicidad real la garantiza el constraint único del store;
// el caller redibuja el sufijo ante colisión con reintentos acotados.
func NewInvoiceNumber(now time.Time) string {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand no falla en plataformas soportadas; documentado en el paquete.
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf[:]))
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
