package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Character set for access codes: uppercase letters and numbers only
const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(length int) string {
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(codeChars)))

	for i := 0; i < length; i++ {
		randomIndex, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			// Fallback para timestamp se houver erro no crypto/rand
			ts := fmt.Sprintf("%d", time.Now().UnixNano())
			randomIndex = big.NewInt(int64(ts[i%len(ts)]))
		}
		result[i] = codeChars[randomIndex.Int64()%int64(len(codeChars))]
	}

	return string(result)
}

// GenerateHospitalCode gera o código de acesso de 6 caracteres do hospital
// Formato: HOS + [A-Z0-9]{3} (ex: HOSA7K)
// Este código é informado pela equipe no auto-cadastro de colaboradores
func GenerateHospitalCode() string {
	return "HOS" + randomCode(3)
}

// GeneratePatientCode gera o código interno do paciente
// Formato: PAC + [A-Z0-9]{8}
func GeneratePatientCode() string {
	return "PAC" + randomCode(8)
}
