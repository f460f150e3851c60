package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]string{
		"light": "light",
		"DARK":  "dark",
		" auto": "auto",
		"":      "auto",
	} {
		th, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, th.Name, in)
	}

	_, err := Parse("neon")
	assert.EqualError(t, err, "unknown theme: neon")
}

func TestToggle(t *testing.T) {
	assert.Equal(t, "dark", Light().Toggle().Name)
	assert.Equal(t, "light", Dark().Toggle().Name)
	assert.Equal(t, "light", Light().Toggle().Toggle().Name)

	got := Auto().Toggle().Name
	assert.Contains(t, []string{"light", "dark"}, got)
}

func TestDoneStyleStrikesThrough(t *testing.T) {
	for _, th := range []Theme{Light(), Dark(), Auto()} {
		assert.True(t, th.Done.GetStrikethrough(), th.Name)
	}
}
