package joincode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Powerhouse Gym", "POW"},
		{"lowercase", "fitzone", "FIT"},
		{"digits and punctuation stripped", "24/7 Fitness!", "FIT"},
		{"short name", "Go", "GO"},
		{"only non-letters", "123 456", ""},
		{"leading spaces", "  Iron Temple", "IRO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prefix(tt.in))
		})
	}
}

func TestGenerate(t *testing.T) {
	code, err := Generate("Powerhouse Gym", func(string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, "POW", code[:3])
	assert.Regexp(t, `^[A-Z]+[1-9][0-9]{2}$`, code)
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	calls := 0
	code, err := Generate("Powerhouse Gym", func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "POW", code[:3])
}

func TestGenerateExhausted(t *testing.T) {
	calls := 0
	_, err := Generate("Powerhouse Gym", func(string) (bool, error) {
		calls++
		return true, nil
	})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, MaxAttempts, calls)
}

func TestGeneratePropagatesProbeError(t *testing.T) {
	probeErr := errors.New("db down")
	_, err := Generate("Powerhouse Gym", func(string) (bool, error) {
		return false, probeErr
	})
	assert.ErrorIs(t, err, probeErr)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "POW123", Normalize("  pow123 "))
	assert.Equal(t, "FIT456", Normalize("fit456"))
}
