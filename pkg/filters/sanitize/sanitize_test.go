package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmichie/sitefilter/pkg/filters"
)

func TestRun(t *testing.T) {
	input := `<p onclick="evil()">Hello <b>world</b><script>alert(1)</script></p>`

	tests := []struct {
		name   string
		params filters.Params
		want   string
	}{
		{"default policy", nil, `<p>Hello <b>world</b></p>`},
		{"ugc", filters.Params{"policy": "ugc"}, `<p>Hello <b>world</b></p>`},
		{"strict", filters.Params{"policy": "strict"}, `Hello world`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New(nil).Run(input, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRun_UnknownPolicy(t *testing.T) {
	_, err := New(nil).Run("<p>x</p>", filters.Params{"policy": "lenient"})
	assert.ErrorIs(t, err, filters.ErrInvalidParam)
}

func TestRegister(t *testing.T) {
	r := filters.NewRegistry()
	Register(r)
	assert.Equal(t, []string{"bluemonday", "sanitize"}, r.Identifiers())
}
