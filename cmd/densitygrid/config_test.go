package main

import (
	"os"
	"path/filepath"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
cell_size = 250
format = "geojson"
top = 5
workers = 8
google_api_key = "abc"
`

func testFlags(t *testing.T, args ...string) *flag.FlagSet {
	t.Helper()
	flags := flag.NewFlagSet("densitygrid", flag.ContinueOnError)
	addConfigFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadConfigMissingFile(t *testing.T) {
	v := viper.New()
	err := readConfig(v, testFlags(t), filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, 1000.0, v.GetFloat64("cell_size"))
	assert.Equal(t, formatJSON, v.GetString("format"))
	assert.Equal(t, 0, v.GetInt("top"))
	assert.Equal(t, 4, v.GetInt("workers"))
	assert.Equal(t, "", v.GetString("google_api_key"))
}

func TestReadConfigFile(t *testing.T) {
	v := viper.New()
	require.NoError(t, readConfig(v, testFlags(t), writeConfig(t, testConfig)))

	assert.Equal(t, 250.0, v.GetFloat64("cell_size"))
	assert.Equal(t, formatGeoJSON, v.GetString("format"))
	assert.Equal(t, 5, v.GetInt("top"))
	assert.Equal(t, 8, v.GetInt("workers"))
	assert.Equal(t, "abc", v.GetString("google_api_key"))
}

func TestReadConfigFlagsOverrideFile(t *testing.T) {
	v := viper.New()
	flags := testFlags(t, "--cell-size", "50", "-n", "2")
	require.NoError(t, readConfig(v, flags, writeConfig(t, testConfig)))

	assert.Equal(t, 50.0, v.GetFloat64("cell_size"))
	assert.Equal(t, 2, v.GetInt("top"))
	assert.Equal(t, formatGeoJSON, v.GetString("format"), "unset flag keeps the file value")
}

func TestReadConfigFlagsWithoutFile(t *testing.T) {
	v := viper.New()
	flags := testFlags(t, "-f", "geojson")
	require.NoError(t, readConfig(v, flags, filepath.Join(t.TempDir(), "config.toml")))

	assert.Equal(t, formatGeoJSON, v.GetString("format"))
	assert.Equal(t, 1000.0, v.GetFloat64("cell_size"))
}

func TestReadConfigMalformed(t *testing.T) {
	v := viper.New()
	err := readConfig(v, testFlags(t), writeConfig(t, "cell_size = = 3\n"))
	assert.Error(t, err)
}
