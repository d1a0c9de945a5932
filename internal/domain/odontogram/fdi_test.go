package odontogram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/odontogram"
)

func TestValidCode(t *testing.T) {
	validos := []string{"11", "18", "21", "28", "31", "38", "41", "48", "51", "55", "61", "65", "71", "75", "81", "85"}
	for _, c := range validos {
		assert.True(t, odontogram.ValidCode(c), c)
	}

	invalidos := []string{
		"", "1", "111", // longitud
		"19", "29", "39", "49", // posición permanente fuera de rango
		"56", "66", "76", "86", // posición temporal fuera de rango
		"01", "91", "10", "50", // cuadrante o posición cero/fuera
		"ab", "1a", " 1",
	}
	for _, c := range invalidos {
		assert.False(t, odontogram.ValidCode(c), "%q no es pieza FDI", c)
	}
}

func TestValidateCodes(t *testing.T) {
	assert.NoError(t, odontogram.ValidateCodes([]string{"11", "12", "21"}))
	assert.NoError(t, odontogram.ValidateCodes(nil), "conjunto vacío es válido (limpia el odontograma)")

	err := odontogram.ValidateCodes([]string{"11", "99"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.Contains(t, err.Error(), "99", "el error nombra la pieza rechazada")

	err = odontogram.ValidateCodes([]string{"11", "12", "11"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
