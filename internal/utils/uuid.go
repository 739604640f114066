package utils

import "github.com/google/uuid"

// UUIDGenerator produces UUIDv7 identifiers. V7 ids embed a millisecond
// timestamp followed by random bits, so ids sort lexicographically by creation
// time and rapid back-to-back calls cannot collide.
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
