package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateHospitalCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^HOS[A-Z0-9]{3}$`)

	for i := 0; i < 100; i++ {
		code := GenerateHospitalCode()
		assert.Len(t, code, 6)
		assert.Regexp(t, pattern, code)
	}
}

func TestGeneratePatientCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^PAC[A-Z0-9]{8}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := GeneratePatientCode()
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}
	// 100 códigos de 8 caracteres aleatórios não devem colidir
	assert.Greater(t, len(seen), 99)
}
