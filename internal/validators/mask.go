package validators

import "strings"

// Máscaras progressivas dos formulários: aplicam pontuação conforme os
// dígitos chegam, para o app renderizar o campo a cada tecla.

// FormatCpfCnpj formata até 11 dígitos como CPF (XXX.XXX.XXX-XX) e de 12 em
// diante como CNPJ (XX.XXX.XXX/XXXX-XX), truncando o excedente.
func FormatCpfCnpj(value string) string {
	digits := Digits(value)

	if len(digits) <= 11 {
		return maskDigits(digits, []maskStop{
			{3, "."}, {6, "."}, {9, "-"},
		}, 11)
	}
	return maskDigits(digits, []maskStop{
		{2, "."}, {5, "."}, {8, "/"}, {12, "-"},
	}, 14)
}

// FormatPhone aplica (XX) XXXXX-XXXX, truncando em 11 dígitos. Replica o
// campo de telefone do app: o hífen entra depois do décimo caractere já
// formatado, o que favorece celulares de 11 dígitos.
func FormatPhone(value string) string {
	digits := Digits(value)
	if len(digits) > 11 {
		digits = digits[:11]
	}

	formatted := digits
	if len(digits) > 2 {
		formatted = "(" + digits[:2] + ") " + digits[2:]
	}
	if len(formatted) > 10 {
		formatted = formatted[:10] + "-" + formatted[10:]
	}
	return formatted
}

// FormatDate aplica DD/MM/AAAA conforme os dígitos chegam, truncando em 8.
func FormatDate(value string) string {
	digits := Digits(value)
	return maskDigits(digits, []maskStop{
		{2, "/"}, {4, "/"},
	}, 8)
}

// FormatTime aplica HH:MM conforme os dígitos chegam, truncando em 4.
func FormatTime(value string) string {
	digits := Digits(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + ":" + digits[2:]
}

type maskStop struct {
	after int
	sep   string
}

func maskDigits(digits string, stops []maskStop, max int) string {
	if len(digits) > max {
		digits = digits[:max]
	}

	var b strings.Builder
	prev := 0
	for _, stop := range stops {
		if len(digits) <= stop.after {
			break
		}
		b.WriteString(digits[prev:stop.after])
		b.WriteString(stop.sep)
		prev = stop.after
	}
	b.WriteString(digits[prev:])
	return b.String()
}
