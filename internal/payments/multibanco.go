package payments

import (
	"crypto/rand"
	"math/big"
)

// Entidade fictícia de cobrança; os pagamentos são simulados.
const MultibancoEntity = "12345"

// NewMultibancoReference gera uma referência de 9 dígitos.
func NewMultibancoReference() (entity string, reference string) {
	digits := make([]byte, 9)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			digits[i] = '0'
			continue
		}
		digits[i] = byte('0' + n.Int64())
	}
	return MultibancoEntity, string(digits)
}
