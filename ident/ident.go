package ident

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// GuestOwnerID is the well-known owner recorded for anonymous submissions.
// It is a fixed, valid v4-shaped UUID so downstream code never needs a
// special case for guests.
const GuestOwnerID = "00000000-0000-4000-8000-000000000000"

// Generate returns a fresh random (version 4) UUID string.
func Generate() string {
	return uuid.NewString()
}

// IsValid reports whether s is a canonical 8-4-4-4-12 version 4 UUID.
// Hex digits may be upper or lower case. Braced and urn forms are rejected.
func IsValid(s string) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Version() == 4 && u.Variant() == uuid.RFC4122
}

// Derive maps namespace:value onto a stable UUID-shaped identifier. The
// underlying polynomial hash is weak: distinct inputs can collide, so the
// result must never act as a security boundary. It exists to normalize
// legacy non-UUID identifiers into something IsValid accepts.
func Derive(namespace, value string) string {
	seed := namespace + ":" + value
	var b [16]byte
	for lane := 0; lane < 4; lane++ {
		h := uint32(lane + 1)
		for _, c := range seed {
			h = h*31 + uint32(c)
		}
		binary.BigEndian.PutUint32(b[lane*4:], h)
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.Must(uuid.FromBytes(b[:])).String()
}
