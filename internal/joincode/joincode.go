// Package joincode generates the short codes trainers and members use to
// join a gym at registration.
package joincode

import (
	"errors"
	"math/rand"
	"strings"
)

// MaxAttempts bounds the regeneration loop. The database unique index on the
// code column remains the final arbiter under concurrent creation.
const MaxAttempts = 50

var ErrExhausted = errors.New("joincode: could not generate a unique code")

// Prefix derives the alphabetic prefix from a gym name: non-letters stripped,
// uppercased, truncated to three characters. Short names yield short
// prefixes.
func Prefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	return b.String()
}

func candidate(prefix string) string {
	suffix := 100 + rand.Intn(900)
	return prefix + itoa3(suffix)
}

func itoa3(n int) string {
	return string([]byte{
		byte('0' + n/100),
		byte('0' + (n/10)%10),
		byte('0' + n%10),
	})
}

// Generate builds a code from the gym name and a random 3-digit suffix,
// regenerating the suffix while taken reports a collision. taken receives
// uppercase candidates only.
func Generate(name string, taken func(code string) (bool, error)) (string, error) {
	prefix := Prefix(name)

	for i := 0; i < MaxAttempts; i++ {
		code := candidate(prefix)
		exists, err := taken(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", ErrExhausted
}

// Normalize uppercases and trims a code for lookup; generation and lookup
// must agree on casing.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
