package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/config"
)

func TestFromTOML(t *testing.T) {
	data := []byte(`
flavor = "commonmark"
selection_window = 2
resources = "assets"
scripts = ["a.lua", "b.lua"]

[rules.code-badge]
enabled = true
options = { label_declared = true }

[rules.image]
enabled = false
`)

	cfg, err := config.FromTOML(data)
	require.NoError(t, err)

	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.Equal(t, 2, cfg.Window())
	assert.True(t, cfg.RecomputeOnEdit())
	assert.Equal(t, "assets", cfg.Resources)
	assert.Equal(t, []string{"a.lua", "b.lua"}, cfg.Scripts)

	require.Contains(t, cfg.Rules, "code-badge")
	assert.Equal(t, true, cfg.Rules["code-badge"].Options["label_declared"])
	assert.False(t, cfg.RuleEnabled("image", true))
}

func TestTOMLRoundTrip(t *testing.T) {
	enabled := false
	original := config.NewConfig()
	original.Resources = "assets"
	original.Rules["image"] = config.RuleConfig{Enabled: &enabled}

	data, err := original.ToTOML()
	require.NoError(t, err)

	parsed, err := config.FromTOML(data)
	require.NoError(t, err)

	assert.Equal(t, original.Flavor, parsed.Flavor)
	assert.Equal(t, original.Window(), parsed.Window())
	assert.Equal(t, original.RecomputeOnEdit(), parsed.RecomputeOnEdit())
	assert.Equal(t, original.Resources, parsed.Resources)
	assert.False(t, parsed.RuleEnabled("image", true))
}

func TestFromTOMLInvalid(t *testing.T) {
	_, err := config.FromTOML([]byte(`flavor = `))
	require.Error(t, err)
}
