package conf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminara-app/backend/conf"
	"github.com/luminara-app/backend/genai"
	"github.com/luminara-app/backend/secgate"
)

func TestGetGenParamsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genparams.toml")
	content := "temperature = 0.2\ntop_p = 0.8\ntop_k = 16\nmax_output_tokens = 512\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	params := conf.GetGenParamsFromFile(path)
	assert.Equal(t, 0.2, params.Temperature)
	assert.Equal(t, 0.8, params.TopP)
	assert.Equal(t, 16, params.TopK)
	assert.Equal(t, 512, params.MaxOutputTokens)
}

func TestGetGenParamsFromFilePartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genparams.toml")
	require.NoError(t, os.WriteFile(path, []byte("temperature = 0.1\n"), 0644))

	params := conf.GetGenParamsFromFile(path)
	assert.Equal(t, 0.1, params.Temperature)
	assert.Equal(t, genai.DefaultGenParams().TopK, params.TopK, "unset fields keep their defaults")
}

func TestGetGenParamsFromFileMissingFallsBack(t *testing.T) {
	params := conf.GetGenParamsFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Equal(t, genai.DefaultGenParams(), params)
}

func TestDeobfuscateIfNeeded(t *testing.T) {
	plain, err := conf.DeobfuscateIfNeeded("sk-plain-key")
	require.NoError(t, err)
	assert.Equal(t, "sk-plain-key", plain)

	encoded, err := secgate.ObfuscationCipher{}.Encrypt([]byte("sk-hidden-key"))
	require.NoError(t, err)

	plain, err = conf.DeobfuscateIfNeeded(conf.ObfuscatedKeyPrefix + encoded)
	require.NoError(t, err)
	assert.Equal(t, "sk-hidden-key", plain)

	_, err = conf.DeobfuscateIfNeeded(conf.ObfuscatedKeyPrefix + "%%%not-base64%%%")
	assert.Error(t, err)
}
