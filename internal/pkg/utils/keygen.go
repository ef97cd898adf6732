package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	base62Chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keyLength   = 48
)

// GenerateKey returns prefix followed by 48 random base62 characters.
func GenerateKey(prefix string) (string, error) {
	s, err := RandomString(keyLength)
	if err != nil {
		return "", err
	}
	return prefix + s, nil
}

// RandomString draws n base62 characters from crypto/rand.
func RandomString(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	limit := big.NewInt(int64(len(base62Chars)))
	for range n {
		num, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(base62Chars[num.Int64()])
	}
	return sb.String(), nil
}
