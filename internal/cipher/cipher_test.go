package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"12345678*abc123*Jean*23",
		"O*03/01/2025*Loyer*Courant*-650.00*virement*True*Logement",
		"C*Livret A\nC*Courant\n",
		"Éléonore payé 12€",
	}
	for _, key := range []int{0, 1, 3, DefaultKey, 100, -5} {
		for _, s := range inputs {
			enc, err := Encode(s, key)
			require.NoError(t, err, "Encode(%q, %d)", s, key)
			dec, err := Decode(enc, key)
			require.NoError(t, err, "Decode(%q, %d)", enc, key)
			assert.Equal(t, s, dec, "key %d", key)
		}
	}
}

func TestPrintableASCIIRoundTrip(t *testing.T) {
	var b []rune
	for r := rune(' '); r <= '~'; r++ {
		if r == FieldDelimiter {
			continue
		}
		b = append(b, r)
	}
	s := string(b)

	for key := -32; key <= 64; key++ {
		enc, err := Encode(s, key)
		require.NoError(t, err)
		dec, err := Decode(enc, key)
		require.NoError(t, err)
		assert.Equal(t, s, dec, "key %d", key)
	}
}

func TestReservedCharactersUnshifted(t *testing.T) {
	enc, err := Encode("a*b\nc", 1)
	require.NoError(t, err)
	assert.Equal(t, "b*c\nd", enc)
}

func TestNoWraparound(t *testing.T) {
	enc, err := Encode("z", DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, string(rune('z'+DefaultKey)), enc, "shift must not wrap to the alphabet start")
}

func TestNegativeKeyAsymmetry(t *testing.T) {
	s := "12345678*abc123*Jean*23"
	k := 7

	enc, err := Encode(s, k)
	require.NoError(t, err)

	wrong, err := Decode(enc, -k)
	require.NoError(t, err)
	assert.NotEqual(t, s, wrong)

	right, err := Decode(enc, k)
	require.NoError(t, err)
	assert.Equal(t, s, right)
}

func TestOutOfRange(t *testing.T) {
	_, err := Decode("A", 'A'+1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Encode(string(rune(0xD7FF)), 1)
	assert.ErrorIs(t, err, ErrOutOfRange, "surrogate code points cannot be written as UTF-8")

	_, err = Encode(string(rune(0x10FFFF)), 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestInvalidUTF8(t *testing.T) {
	_, err := Encode("ab\xffcd", 1)
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = Decode("\xc3", 0)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
