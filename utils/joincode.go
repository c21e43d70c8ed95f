package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/teamforge-api/models"
)

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateJoinCode draws an 8-character code from the uppercase
// alphanumeric alphabet (36^8 possible codes).
// Example: "X7K9M2P1"
//
// Uniqueness is not checked here: the store's unique index on join_code
// is the authority, and callers redraw on a reported collision.
func GenerateJoinCode() string {
	result := make([]byte, models.JoinCodeLength)
	for i := range result {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(joinCodeAlphabet))))
		result[i] = joinCodeAlphabet[num.Int64()]
	}
	return string(result)
}
