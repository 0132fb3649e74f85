package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashers(t *testing.T) {
	bc, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)
	pb, err := NewPBKDF2(1000)
	require.NoError(t, err)

	for name, h := range map[string]Hasher{"bcrypt": bc, "pbkdf2": pb} {
		t.Run(name, func(t *testing.T) {
			first, err := h.Hash("secret")
			require.NoError(t, err)
			second, err := h.Hash("secret")
			require.NoError(t, err)

			assert.NotEqual(t, "secret", first)
			assert.NotEqual(t, first, second, "salted")
			assert.NoError(t, h.Compare(first, "secret"))
			assert.NoError(t, h.Compare(second, "secret"))
			assert.ErrorIs(t, h.Compare(first, "Secret"), ErrMismatch)
		})
	}
}

func TestPBKDF2_Format(t *testing.T) {
	p, err := NewPBKDF2(1200)
	require.NoError(t, err)
	h, err := p.Hash("pw")
	require.NoError(t, err)

	parts := strings.Split(h, "$")
	require.Len(t, parts, 4)
	assert.Equal(t, "pbkdf2-sha256", parts[0])
	assert.Equal(t, "1200", parts[1])

	other, err := NewPBKDF2(5)
	require.NoError(t, err)
	assert.NoError(t, other.Compare(h, "pw"), "iterations come from the stored hash")

	assert.Error(t, p.Compare("not-a-hash", "pw"))
	assert.Error(t, p.Compare("pbkdf2-sha256$x$AA$AA", "pw"))
}

func TestNew(t *testing.T) {
	h, err := New("", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, &Bcrypt{}, h)

	h, err = New(" PBKDF2 ", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPBKDF2Iterations, h.(*PBKDF2).iterations)

	_, err = New("md5", 0, 0)
	assert.Error(t, err)

	_, err = New("bcrypt", 99, 0)
	assert.Error(t, err)

	_, err = New("pbkdf2", 0, -1)
	assert.Error(t, err)
}
