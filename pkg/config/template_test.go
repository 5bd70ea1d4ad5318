package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/config"
)

func templateRules() []config.RuleInfo {
	return []config.RuleInfo{
		{ID: "image", Description: "Render resource images as blocks", Scope: "block", Enabled: true},
		{ID: "checkbox", Description: "Render task markers as checkboxes", Scope: "inline", Enabled: true},
		{ID: "styled-spans", Description: "Color styled spans", Scope: "inline"},
	}
}

func TestGenerateTemplateParses(t *testing.T) {
	for _, format := range []config.FileFormat{config.FileFormatYAML, config.FileFormatTOML} {
		for _, full := range []bool{false, true} {
			name := string(format)
			if full {
				name += " full"
			}
			t.Run(name, func(t *testing.T) {
				data, err := config.GenerateTemplate(config.TemplateOptions{
					Full:   full,
					Format: format,
					Rules:  templateRules(),
				})
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(string(data), config.DefaultTemplateHeader()))

				cfg, err := config.Decode(format, data)
				require.NoError(t, err)
				assert.Equal(t, config.FlavorGFM, cfg.Flavor)
				assert.Equal(t, 1, cfg.Window())

				if full {
					assert.True(t, cfg.RuleEnabled("image", false))
					assert.False(t, cfg.RuleEnabled("styled-spans", true))
				} else {
					assert.Empty(t, cfg.Rules)
				}
			})
		}
	}
}

func TestGenerateTemplateIncludeRules(t *testing.T) {
	data, err := config.GenerateTemplate(config.TemplateOptions{
		Full:         true,
		Rules:        templateRules(),
		IncludeRules: []string{"checkbox"},
	})
	require.NoError(t, err)

	assert.Contains(t, string(data), "  checkbox:")
	assert.NotContains(t, string(data), "  image:")
}

func TestGenerateTemplateUnknownFormat(t *testing.T) {
	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "ini"})
	require.Error(t, err)
}
