package utils

import (
	"fmt"
	"strings"
)

// OnlyDigits remove tudo que não for dígito
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskCPF formata um CPF como 000.000.000-00
func MaskCPF(cpf string) string {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return cpf
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
}

// ValidateCPF valida os dígitos verificadores de um CPF.
// Aceita o número com ou sem máscara; rejeita sequências repetidas (111.111.111-11 etc).
func ValidateCPF(cpf string) bool {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}

	// CPFs com todos os dígitos iguais passam no cálculo mas são inválidos
	allEqual := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	// Primeiro dígito verificador
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	check := (sum * 10) % 11
	if check == 10 {
		check = 0
	}
	if check != int(digits[9]-'0') {
		return false
	}

	// Segundo dígito verificador
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	check = (sum * 10) % 11
	if check == 10 {
		check = 0
	}
	return check == int(digits[10]-'0')
}
