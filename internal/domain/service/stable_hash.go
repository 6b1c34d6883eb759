package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// maxUint32 is the divisor mapping a 32-bit prefix onto [0,1].
const maxUint32 = float64(0xFFFFFFFF)

// StableHash maps a canonical payload to a reproducible value in [0,1]
// using HMAC-SHA256 keyed by secret. The first four digest bytes (the first
// eight hex characters) are read as a big-endian uint32.
//
// The upper bound is reachable only for an all-ones prefix, so in practice
// the value lies in [0,1).
func StableHash(canonical, secret []byte) float64 {
	mac := hmac.New(sha256.New, secret)
	mac.Write(canonical) //nolint:errcheck // hash.Hash writes never fail
	digest := mac.Sum(nil)
	return float64(binary.BigEndian.Uint32(digest[:4])) / maxUint32
}
