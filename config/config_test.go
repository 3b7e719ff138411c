package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Load_AllExtensionsEnabled(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "gofortran.toml")
	contents := `
[extensions]
x_format = true
dollar_edit = true
byte_type = true
double_complex = true
`
	assert.NoError(os.WriteFile(path, []byte(contents), 0o644))

	f, err := Load(path)
	assert.NoError(err)
	assert.True(f.Extensions.XFormat)
	assert.True(f.Extensions.DollarEdit)
	assert.True(f.Extensions.ByteType)
	assert.True(f.Extensions.DoubleComplex)
}

func Test_Load_DefaultsAllFalseWhenOmitted(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "gofortran.toml")
	assert.NoError(os.WriteFile(path, []byte("[extensions]\nx_format = true\n"), 0o644))

	f, err := Load(path)
	assert.NoError(err)
	assert.True(f.Extensions.XFormat)
	assert.False(f.Extensions.DollarEdit)
	assert.False(f.Extensions.ByteType)
	assert.False(f.Extensions.DoubleComplex)
}

func Test_Load_MissingFileErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Load("/nonexistent/path/gofortran.toml")
	assert.Error(err)
}

func Test_Load_MalformedTOMLErrors(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "gofortran.toml")
	assert.NoError(os.WriteFile(path, []byte("not = [valid toml"), 0o644))

	_, err := Load(path)
	assert.Error(err)
}
