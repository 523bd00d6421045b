package identifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/safety-roster/pkg/util"
)

func TestNormalizeFoldsFullwidthDigits(t *testing.T) {
	cases := map[string]string{
		"０００１":       "0001",
		"0001":       "0001",
		"００７":        "007",
		"１2３4":       "1234",
		"９８７６５４３２１０": "9876543210",
	}
	for raw, want := range cases {
		got, err := Normalize(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestNormalizeMatchesASCIIEquivalent(t *testing.T) {
	full, err := Normalize("０１２３４５６７８９")
	require.NoError(t, err)
	half, err := Normalize("0123456789")
	require.NoError(t, err)
	assert.Equal(t, half, full)
}

func TestNormalizeRejectsNonDigits(t *testing.T) {
	for _, raw := range []string{"", "12a3", "ＩＤ１", "1 2", "12-3", "１２　３", "٣", "+1", "1.0"} {
		got, err := Normalize(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidIdentifier), raw)
		assert.Empty(t, got, raw)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("42"))
	assert.False(t, Valid("４２"))
	assert.False(t, Valid(""))
}
