// Package config loads extension-flag configuration from a TOML file, the
// way internal/tqw loads TunaQuest's world-data format: read the whole file,
// then decode it directly into a typed struct.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Extensions holds the non-standard extension toggles, all off by default.
// They are copied into fortran.ExtensionSet, which the parse itself does not
// consult.
type Extensions struct {
	XFormat       bool `toml:"x_format"`
	DollarEdit    bool `toml:"dollar_edit"`
	ByteType      bool `toml:"byte_type"`
	DoubleComplex bool `toml:"double_complex"`
}

// File is the top-level shape of a gofortran TOML config file.
type File struct {
	Extensions Extensions `toml:"extensions"`
}

// Load reads and decodes the TOML config file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return f, nil
}
