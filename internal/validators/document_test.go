package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCpfCnpj(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"cpf válido", "52998224725", true},
		{"cpf válido com máscara", "529.982.247-25", true},
		{"cpf com primeiro dígito verificador errado", "52998224735", false},
		{"cpf com segundo dígito verificador errado", "52998224724", false},
		{"cpf de dígitos repetidos", "11111111111", false},
		{"cnpj de dígitos repetidos", "11111111111111", false},
		{"cnpj qualquer de 14 dígitos passa", "12345678000190", true},
		{"cnpj com máscara", "12.345.678/0001-90", true},
		{"tamanho errado", "1234567890", false},
		{"vazio", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCpfCnpj(tt.input))
		})
	}
}

// O formato de 14 dígitos aceita qualquer sequência não repetida: a conferência
// real dos dígitos verificadores do CNPJ nunca existiu no app e o comportamento
// é preservado.
func TestValidateCnpjIsLenient(t *testing.T) {
	assert.True(t, ValidateCpfCnpj("99999999999998"))
	assert.False(t, ValidateCpfCnpj("99999999999999"))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "11912345678", Digits("(11) 91234-5678"))
	assert.Equal(t, "", Digits("abc"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("Álvaro"), Fold("alvaro"))
	assert.Equal(t, "jose", Fold("José"))
}
