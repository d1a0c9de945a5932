// Package odontogram valida códigos de pieza dental en notación FDI (ISO 3950):
// dos dígitos, cuadrante + posición. Servicio de dominio puro.
package odontogram

import (
	"fmt"

	"github.com/tu-usuario/dental-lab-api/internal/domain"
)

// ValidCode indica si code es una pieza FDI válida:
// permanentes 11-18, 21-28, 31-38, 41-48; temporales 51-55, 61-65, 71-75, 81-85.
func ValidCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	q := code[0] - '0'
	p := code[1] - '0'
	switch {
	case q >= 1 && q <= 4:
		return p >= 1 && p <= 8
	case q >= 5 && q <= 8:
		return p >= 1 && p <= 5
	}
	return false
}

// ValidateCodes valida el conjunto completo y rechaza duplicados; el motor lo
// llama antes de escribir la asignación de dientes.
func ValidateCodes(codes []string) error {
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if !ValidCode(c) {
			return fmt.Errorf("%w: pieza dental %q fuera de la notación FDI", domain.ErrInvalidReference, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: pieza dental %q repetida", domain.ErrInvalidInput, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
