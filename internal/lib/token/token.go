// Package token генерирует непредсказуемые токены активации учётных записей.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// ActivationLength длина токена активации в символах.
const ActivationLength = 16

// Generator создает токены из криптографически стойкого источника случайности.
type Generator struct {
	source io.Reader
}

// NewGenerator создает Generator поверх crypto/rand.
func NewGenerator() *Generator {
	return &Generator{source: rand.Reader}
}

// Generate возвращает шестнадцатеричную строку длиной length символов.
func (g *Generator) Generate(length int) (string, error) {
	const op = "token.Generate"
	if length <= 0 {
		return "", fmt.Errorf("%s: length must be positive, got %d", op, length)
	}
	b := make([]byte, (length+1)/2)
	if _, err := io.ReadFull(g.source, b); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(b)[:length], nil
}

// Activation возвращает токен активации стандартной длины.
func (g *Generator) Activation() (string, error) {
	return g.Generate(ActivationLength)
}
