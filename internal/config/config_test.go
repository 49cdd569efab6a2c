package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsEnablesUnusedWarnings(t *testing.T) {
	opts := Defaults()
	assert.True(t, opts.Warnings.Unused)
	assert.False(t, opts.SuppressWarnings())
}

func TestParseAppliesDefaultsForOmittedKeys(t *testing.T) {
	opts, err := Parse([]byte(`source_path: ["src", "lib"]`))
	require.NoError(t, err)
	assert.True(t, opts.Warnings.Unused, "an omitted warnings block must keep the default")
	assert.Equal(t, []string{"src", "lib"}, opts.SourcePath)
}

func TestParseHonorsExplicitFalse(t *testing.T) {
	opts, err := Parse([]byte("warnings:\n  unused: false\n"))
	require.NoError(t, err)
	assert.False(t, opts.Warnings.Unused)
	assert.True(t, opts.SuppressWarnings())
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("warnings: [this is not a map"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/to/options.yaml")
	assert.Error(t, err)
}
