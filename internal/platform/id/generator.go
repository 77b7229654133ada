package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generator creates opaque IDs for stream subscribers and requests.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}

// NanoIDGenerator yields short URL-safe ids, used where ids end up in log lines.
type NanoIDGenerator struct {
	size int
}

// NewNanoIDGenerator returns a generator of size-character ids. Sizes below 1 use 12.
func NewNanoIDGenerator(size int) *NanoIDGenerator {
	if size < 1 {
		size = 12
	}
	return &NanoIDGenerator{size: size}
}

func (g *NanoIDGenerator) NewID() (string, error) {
	value, err := gonanoid.New(g.size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return value, nil
}
