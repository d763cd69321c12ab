package utils

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultIDAlphabet is URL-safe and excludes visually ambiguous characters
// (0, O, l, 1).
const DefaultIDAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultIDLength is the length of generated paste IDs
const DefaultIDLength = 8

// IDGenerator produces short, URL-safe, collision-resistant paste IDs
type IDGenerator struct {
	alphabet string
	length   int
}

// NewIDGenerator returns a generator for the given alphabet and length.
// Zero values fall back to the defaults.
func NewIDGenerator(alphabet string, length int) *IDGenerator {
	if alphabet == "" {
		alphabet = DefaultIDAlphabet
	}
	if length <= 0 {
		length = DefaultIDLength
	}
	return &IDGenerator{alphabet: alphabet, length: length}
}

// Generate returns a new random ID
func (g *IDGenerator) Generate() (string, error) {
	return gonanoid.Generate(g.alphabet, g.length)
}

// Length returns the configured ID length
func (g *IDGenerator) Length() int {
	return g.length
}

// IsValid checks that an ID has the configured length and contains only
// alphabet members
func (g *IDGenerator) IsValid(id string) bool {
	if len(id) != g.length {
		return false
	}
	for _, char := range id {
		if !strings.ContainsRune(g.alphabet, char) {
			return false
		}
	}
	return true
}
