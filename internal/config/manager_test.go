package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{provider: "", want: "env"},
		{provider: " ENV ", want: "env"},
		{provider: "consul", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv("CONFIG_PROVIDER", tt.provider)
			m, err := FromEnv()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Source())
		})
	}
}

func TestFromEnvDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_CAPTCHA_FILE_ONLY=from-file\n"), 0o600))
	t.Setenv("CONFIG_PROVIDER", "dotenv")
	t.Setenv("DOTENV_PATH", path)

	m, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dotenv", m.Source())

	val, err := m.Get("TEST_CAPTCHA_FILE_ONLY")
	require.NoError(t, err)
	assert.Equal(t, "from-file", val)
}

func TestFromEnvVaultRequiresCredentials(t *testing.T) {
	t.Setenv("CONFIG_PROVIDER", "vault")
	t.Setenv("VAULT_ADDR", "")
	t.Setenv("VAULT_TOKEN", "")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestManagerGet(t *testing.T) {
	t.Setenv("TEST_CAPTCHA_KEY", "value")
	m := NewManager(NewEnvSource())

	val, err := m.Get("TEST_CAPTCHA_KEY")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	_, err = m.Get("TEST_CAPTCHA_MISSING")
	require.Error(t, err)
}

func TestDotenvSourceEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_CAPTCHA_SHARED=file\n"), 0o600))
	t.Setenv("TEST_CAPTCHA_SHARED", "env")

	src, err := NewDotenvSource(path)
	require.NoError(t, err)
	val, err := src.Get("TEST_CAPTCHA_SHARED")
	require.NoError(t, err)
	assert.Equal(t, "env", val)

	_, err = src.Get("TEST_CAPTCHA_NOWHERE")
	require.Error(t, err)

	_, err = NewDotenvSource(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestNewVaultSource(t *testing.T) {
	_, err := NewVaultSource("", "token", "")
	require.Error(t, err)

	v, err := NewVaultSource("http://127.0.0.1:8200", "token", "")
	require.NoError(t, err)
	assert.Equal(t, "vault", v.Name())
	assert.Equal(t, "secret", v.mount)
}
