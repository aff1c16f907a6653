package validators

// Validação de CPF/CNPJ usada no cadastro de profissional. O documento vira
// o identificador do salão, então só entra no banco depois de passar aqui.

// ValidateCpfCnpj aceita o valor com ou sem máscara: 11 dígitos valida como
// CPF, 14 como CNPJ, qualquer outro tamanho é inválido.
func ValidateCpfCnpj(value string) bool {
	digits := Digits(value)

	switch len(digits) {
	case 11:
		return validCPF(digits)
	case 14:
		return validCNPJ(digits)
	default:
		return false
	}
}

func validCPF(cpf string) bool {
	if allSameDigit(cpf) {
		return false
	}

	// Primeiro dígito verificador: soma ponderada dos 9 primeiros dígitos
	// (pesos 10..2), resto mod 11 com 10 e 11 mapeados para 0.
	sum := 0
	for i := 1; i <= 9; i++ {
		sum += int(cpf[i-1]-'0') * (11 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 || remainder == 11 {
		remainder = 0
	}
	if remainder != int(cpf[9]-'0') {
		return false
	}

	// Segundo dígito: mesma conta sobre os 10 primeiros (pesos 11..2).
	sum = 0
	for i := 1; i <= 10; i++ {
		sum += int(cpf[i-1]-'0') * (12 - i)
	}
	remainder = (sum * 10) % 11
	if remainder == 10 || remainder == 11 {
		remainder = 0
	}
	return remainder == int(cpf[10]-'0')
}

// validCNPJ rejeita apenas sequências de dígito repetido. Os dígitos
// verificadores do CNPJ nunca foram conferidos pelo app em produção, e o
// comportamento observável é mantido tal qual.
func validCNPJ(cnpj string) bool {
	return !allSameDigit(cnpj)
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return len(digits) > 0
}
