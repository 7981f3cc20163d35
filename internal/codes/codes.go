// Package codes генерирует короткие коды ссылок.
//
// Алфавит не содержит визуально похожих символов (0/O/o, 1/l/I), поэтому код можно
// продиктовать или переписать руками.
package codes

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Alphabet алфавит коротких кодов, 56 символов.
const Alphabet = "23456789abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// DefaultLength длина кода по умолчанию. 56^7 ≈ 1.7e12 вариантов.
const DefaultLength = 7

const (
	minLength = 4
	maxLength = 16
)

// ErrInvalidLength недопустимая длина кода.
var ErrInvalidLength = errors.New("code length out of range")

// Generator генератор случайных кодов фиксированной длины.
type Generator struct {
	length int
	source io.Reader
}

// New создает генератор. По умолчанию источник энтропии crypto/rand.
func New(length int, opts ...func(*Generator)) (*Generator, error) {
	if length < minLength || length > maxLength {
		return nil, fmt.Errorf("%w: %d, want %d..%d", ErrInvalidLength, length, minLength, maxLength)
	}
	g := &Generator{
		length: length,
		source: rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// WithSource подменяет источник случайных байт. Используется в тестах.
func WithSource(r io.Reader) func(*Generator) {
	return func(g *Generator) {
		g.source = r
	}
}

// Length длина генерируемых кодов.
func (g *Generator) Length() int {
	return g.length
}

// Next возвращает новый случайный код.
//
// Байты, которые не укладываются в целое число алфавитов (>= 224 для 56 символов), отбрасываются,
// чтобы распределение символов было равномерным.
func (g *Generator) Next() (string, error) {
	const alphabetLen = len(Alphabet)
	const limit = 256 - 256%alphabetLen

	var sb strings.Builder
	sb.Grow(g.length)

	buf := make([]byte, g.length*2) //nolint:mnd
	for sb.Len() < g.length {
		if _, err := io.ReadFull(g.source, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			sb.WriteByte(Alphabet[int(b)%alphabetLen])
			if sb.Len() == g.length {
				break
			}
		}
	}
	return sb.String(), nil
}

// Valid проверяет, что code имеет длину генератора и состоит из символов алфавита.
func (g *Generator) Valid(code string) bool {
	return len(code) == g.length && Wellformed(code)
}

// Wellformed проверяет код независимо от текущей длины генератора: допустимая длина и символы
// алфавита. Коды, выданные до смены длины, остаются well-formed.
func Wellformed(code string) bool {
	if len(code) < minLength || len(code) > maxLength {
		return false
	}
	for i := range len(code) {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
