package pkg

import (
	"math/rand"
	"time"
)

const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func init() {
	rand.Seed(time.Now().UnixNano())
}

// RandString generates a short shareable room code. Ambiguous characters
// (0/O, 1/I) are left out of the alphabet.
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
