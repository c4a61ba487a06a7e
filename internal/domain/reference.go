package domain

import "math/rand"

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferenceLength is the size of a booking reference code, e.g. "K7Q2ZD".
const ReferenceLength = 6

// NewReference generates a booking reference code. Uniqueness is enforced
// by the bookings table; callers regenerate on collision. The top-level
// rand source is safe for concurrent use.
func NewReference() string {
	buf := make([]byte, ReferenceLength)
	for i := range buf {
		buf[i] = referenceAlphabet[rand.Intn(len(referenceAlphabet))]
	}
	return string(buf)
}
