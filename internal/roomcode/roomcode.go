package roomcode

import (
	"math/rand"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLength is the length of codes assigned to rooms at creation.
const DefaultLength = 8

// Generate returns a random access code of the given length drawn from
// the uppercase Latin alphabet. Codes are not checked for uniqueness
// against existing rooms.
func Generate(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}

	return string(b)
}
