package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/config"
)

func TestFileFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want config.FileFormat
	}{
		{".mdlive.yml", config.FileFormatYAML},
		{".mdlive.yaml", config.FileFormatYAML},
		{".mdlive.toml", config.FileFormatTOML},
		{"CONFIG.TOML", config.FileFormatTOML},
		{"config", config.FileFormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, config.FileFormatForPath(tt.path))
		})
	}
}

func TestDecodeEncode(t *testing.T) {
	for _, format := range []config.FileFormat{config.FileFormatYAML, config.FileFormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			original := config.NewConfig()
			original.Flavor = config.FlavorCommonMark

			data, err := original.Encode(format, config.DefaultTemplateHeader())
			require.NoError(t, err)

			parsed, err := config.Decode(format, data)
			require.NoError(t, err)
			assert.Equal(t, config.FlavorCommonMark, parsed.Flavor)
		})
	}

	_, err := config.Decode("ini", nil)
	require.Error(t, err)
}
