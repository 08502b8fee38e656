// Package secretcode generates and matches the secret codes printed on coupons.
package secretcode

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"
)

// Alphabet is 32 symbols (uppercase letters and digits minus the confusable
// I/O/0/1) so a single secure random byte masked to 5 bits selects a symbol
// without modulo bias.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	CodeLength = 12
	GroupSize  = 3
	Delimiter  = "-"
)

var ErrEntropyUnavailable = errors.New("secretcode: secure random source unavailable")

// Generate returns a new 12-symbol secret code in display form
// (XXX-XXX-XXX-XXX). Issuance must hard-stop on error; there is no
// fallback to a weaker random source.
func Generate() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrEntropyUnavailable, err)
	}

	symbols := make([]byte, CodeLength)
	for i, b := range buf {
		symbols[i] = Alphabet[b&0x1f]
	}
	return Format(string(symbols)), nil
}

// Format renders a bare 12-symbol code into its grouped display form.
func Format(code string) string {
	if len(code) != CodeLength {
		return code
	}
	groups := make([]string, 0, CodeLength/GroupSize)
	for i := 0; i < CodeLength; i += GroupSize {
		groups = append(groups, code[i:i+GroupSize])
	}
	return strings.Join(groups, Delimiter)
}

// Normalize strips whitespace and delimiters and uppercases the input so
// user-entered codes match regardless of formatting.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Match compares two normalized codes in constant time. Both inputs are
// hashed first so the comparison cost is independent of the inputs' lengths
// and of the position of the first differing symbol; length mismatch is
// folded into the hash comparison rather than short-circuiting.
func Match(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
