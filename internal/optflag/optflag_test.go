package optflag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEnablesEverything(t *testing.T) {
	var zero Set
	for _, f := range All {
		assert.True(t, zero.Enabled(f), f)
		assert.True(t, Default().Enabled(f), f)
	}
	assert.Empty(t, Default().Disabled())
}

func TestDisableIsCopyOnWrite(t *testing.T) {
	base := Default().Disable(ImportFallback)
	more := base.Disable(LibraryOverrides)

	assert.False(t, base.Enabled(ImportFallback))
	assert.True(t, base.Enabled(LibraryOverrides))
	assert.Equal(t, []Flag{ImportFallback, LibraryOverrides}, more.Disabled())
}

func TestParse(t *testing.T) {
	s, err := Parse([]string{" import-fallback ", ""})
	require.NoError(t, err)
	assert.False(t, s.Enabled(ImportFallback))
	assert.NotContains(t, s.String(), "import-fallback")

	_, err = Parse([]string{"no-such-flag"})
	assert.ErrorContains(t, err, "no-such-flag")
}
