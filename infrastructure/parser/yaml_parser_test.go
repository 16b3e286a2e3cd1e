package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
)

func TestYamlClassConfigParser_Parse(t *testing.T) {
	doc := []byte(`
mesh: hull.msh
mass: 500
thrust: 2.5e4
reentry: true
thrusters:
  - pos: [0, 0, -4]
    group: main
main:
  isp: 3.1e4
  exhaust:
    lscale: 4
`)

	cfg, err := NewYamlClassConfigParser().Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "hull.msh", cfg["mesh"])
	assert.Equal(t, 500, cfg["mass"])
	assert.Equal(t, 2.5e4, cfg["thrust"])
	assert.Equal(t, true, cfg["reentry"])

	ths, ok := cfg["thrusters"].([]any)
	require.True(t, ok)
	require.Len(t, ths, 1)
	first, ok := ths[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "main", first["group"])
	assert.Equal(t, []any{0, 0, -4}, first["pos"])

	section, ok := cfg["main"].(map[string]any)
	require.True(t, ok, "got %T", cfg["main"])
	assert.Equal(t, 3.1e4, section["isp"])
	exhaust, ok := section["exhaust"].(map[string]any)
	require.True(t, ok, "got %T", section["exhaust"])
	assert.Equal(t, 4, exhaust["lscale"])
}

func TestYamlClassConfigParser_Empty(t *testing.T) {
	for _, doc := range []string{"", "   \n", "# only a comment\n"} {
		cfg, err := NewYamlClassConfigParser().Parse([]byte(doc))
		require.NoError(t, err, "doc %q", doc)
		assert.Equal(t, entities.ClassConfig{}, cfg)
	}
}

func TestYamlClassConfigParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "sequence root", doc: "- a\n- b\n", want: "got sequence"},
		{name: "scalar root", doc: "hello\n", want: "got scalar"},
		{name: "syntax", doc: "mesh: [unclosed\n", want: "class config invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYamlClassConfigParser().Parse([]byte(tt.doc))
			var cerr *sdkerrors.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
