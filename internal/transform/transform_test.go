package transform

import (
	"errors"
	"testing"

	"db-gate/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reverseHasher struct{ calls int }

func (r *reverseHasher) Hash(s string) (string, error) {
	r.calls++
	b := []rune(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return "h:" + string(b), nil
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }

func TestParseDirective(t *testing.T) {
	tests := []struct {
		in   string
		want Directive
	}{
		{in: "", want: nil},
		{in: " , ,", want: nil},
		{in: "password", want: Directive{"password"}},
		{in: " password , ,pin ", want: Directive{"password", "pin"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDirective(tt.in))
		})
	}
	assert.True(t, ParseDirective("Password").Matches("PASSWORD"))
	assert.Equal(t, "password,pin", ParseDirective(" password , pin").String())
}

func TestApply(t *testing.T) {
	h := &reverseHasher{}
	in := record.Fields(
		"name", record.Text("Ana"),
		"PASSWORD", record.Text("secret"),
		"pin", record.Int(1234),
		"token", record.Null(),
	)

	out, err := Apply(h, ParseDirective("password, pin, token, missing"), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "PASSWORD", "pin", "token"}, out.Names())
	assert.Equal(t, record.Text("Ana"), out[0].Value)
	assert.Equal(t, record.Text("h:terces"), out[1].Value)
	assert.Equal(t, record.Text("h:4321"), out[2].Value)
	assert.True(t, out[3].Value.IsNull(), "nulls are left alone")
	assert.Equal(t, 2, h.calls)

	assert.Equal(t, record.Text("secret"), in[1].Value, "input untouched")
}

func TestApply_NoDirective(t *testing.T) {
	in := record.Fields("password", record.Text("secret"))
	out, err := Apply(nil, nil, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestApply_Errors(t *testing.T) {
	in := record.Fields("password", record.Text("secret"))

	_, err := Apply(failingHasher{}, ParseDirective("password"), in)
	assert.ErrorContains(t, err, "entropy exhausted")

	_, err = Apply(nil, ParseDirective("password"), in)
	assert.ErrorContains(t, err, "no hasher")
}
