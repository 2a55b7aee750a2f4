package random

import (
	"math/rand/v2"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789"

// NewRandomString generates random alphanumeric string with given size.
func NewRandomString(size int) string {
	b := make([]byte, size)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}

	return string(b)
}

// TokenSource yields name tokens for remote images.
type TokenSource interface {
	NextToken() string
}

// Alphanumeric is a TokenSource producing tokens of Size characters.
type Alphanumeric struct {
	Size int
}

func (a Alphanumeric) NextToken() string {
	return NewRandomString(a.Size)
}
