package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfig(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, writeConfig(&buf, ""))
	assert.Equal(t, template, buf.String())

	path := filepath.Join(t.TempDir(), "config.toml")
	buf.Reset()
	require.Nil(t, writeConfig(&buf, path))
	assert.Zero(t, buf.Len())

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, template, string(data))

	v := viper.New()
	v.SetConfigType("toml")
	require.Nil(t, v.ReadConfig(bytes.NewReader(data)))
	assert.Equal(t, ":8080", v.GetString("server.bind-address"))
}
