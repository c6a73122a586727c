package utils

import "github.com/google/uuid"

// UUIDGenerator produces folder and record identifiers. UUIDv7 keeps ids
// roughly time-ordered, which makes the folder list stable across reloads.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
