package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormat is the serialization of a configuration file.
type FileFormat string

const (
	FileFormatYAML FileFormat = "yaml"
	FileFormatTOML FileFormat = "toml"
)

// FileFormatForPath returns the format of a config file from its extension.
// Unknown extensions are read as YAML.
func FileFormatForPath(path string) FileFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FileFormatTOML
	}
	return FileFormatYAML
}

// Decode parses data in the given format.
func Decode(format FileFormat, data []byte) (*Config, error) {
	switch format {
	case FileFormatTOML:
		return FromTOML(data)
	case FileFormatYAML, "":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}

// Encode serializes the configuration in the given format, prefixed with
// header.
func (c *Config) Encode(format FileFormat, header string) ([]byte, error) {
	switch format {
	case FileFormatTOML:
		return c.ToTOMLWithHeader(header)
	case FileFormatYAML, "":
		return c.ToYAMLWithHeader(header)
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}
