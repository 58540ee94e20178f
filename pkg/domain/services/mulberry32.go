package services

import (
	"strconv"
	"unicode/utf16"
)

const (
	seedOffsetBasis uint32 = 2166136261
	mulberryStep    uint32 = 0x6D2B79F5
	mulberryScale          = 4294967296.0
)

// RandomSource yields uniformly distributed values in [0,1)
type RandomSource interface {
	Float64() float64
}

// Mulberry32 is a 32-bit counter-based generator. Its output sequence depends only
// on the seed, so identical seeds reproduce identical streams on every platform.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 creates a generator positioned at the start of the seed's stream
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 advances the generator and returns the next raw 32-bit output
func (m *Mulberry32) Uint32() uint32 {
	m.state += mulberryStep
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 advances the generator and returns a value in [0,1)
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / mulberryScale
}

// SeedFor folds a forecast key into a 32-bit seed using an FNV-1a style mix.
// Characters are folded as UTF-16 code units.
func SeedFor(identifier string, iteration int) uint32 {
	return HashSeed(identifier + "::" + strconv.Itoa(iteration))
}

// HashSeed folds an arbitrary string into a 32-bit seed
func HashSeed(key string) uint32 {
	acc := seedOffsetBasis
	for _, unit := range utf16.Encode([]rune(key)) {
		acc ^= uint32(unit)
		acc += (acc << 1) + (acc << 4) + (acc << 7) + (acc << 8) + (acc << 24)
	}
	return acc
}
