package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretReader struct {
	secrets map[string]*VaultSecret
	reads   []string
}

func (f *fakeSecretReader) GetSecretV2(path string) (*VaultSecret, error) {
	f.reads = append(f.reads, path)
	secret, ok := f.secrets[path]
	if !ok {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	return secret, nil
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "secret/data/test")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDecodeKVv2(t *testing.T) {
	tests := []struct {
		name        string
		raw         map[string]any
		expectError string
		expected    *VaultSecret
	}{
		{
			name: "valid secret",
			raw: map[string]any{
				"data":     map[string]any{"api_key": "abc"},
				"metadata": map[string]any{"version": float64(3)},
			},
			expected: &VaultSecret{Data: map[string]any{"api_key": "abc"}, Version: 3},
		},
		{
			name:        "missing data",
			raw:         map[string]any{"metadata": map[string]any{"version": float64(1)}},
			expectError: "missing 'data' field",
		},
		{
			name:        "data wrong type",
			raw:         map[string]any{"data": "nope", "metadata": map[string]any{}},
			expectError: "missing 'data' field",
		},
		{
			name:        "missing metadata",
			raw:         map[string]any{"data": map[string]any{}},
			expectError: "missing 'metadata' field",
		},
		{
			name:        "missing version",
			raw:         map[string]any{"data": map[string]any{}, "metadata": map[string]any{"other": 1}},
			expectError: "missing 'version' field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := decodeKVv2(tt.raw, "secret/data/test")
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, secret)
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"})
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})

	t.Run("blank token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "empty-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("   \n  \n"), 0600))

		_, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			Questions: OperationAIConfig{APIKey: "existing-questions-key"},
		},
	}

	applyGeminiKeyToConfig(config, "vault-key")

	assert.Equal(t, "vault-key", config.AI.APIKey)
	assert.Equal(t, "existing-questions-key", config.AI.Questions.APIKey)
	assert.Equal(t, "vault-key", config.AI.Feedback.APIKey)
}

func TestApplySecrets(t *testing.T) {
	reader := &fakeSecretReader{secrets: map[string]*VaultSecret{
		"secret/data/api-keys": {Data: map[string]any{"keys": "key-one, key-two,,"}},
		"secret/data/gemini":   {Data: map[string]any{"api_key": "gemini-secret-key"}},
		"secret/data/tls":      {Data: map[string]any{"cert": "CERT", "key": "KEY"}},
	}}

	config := &Config{
		Vault: VaultConfig{
			Enabled: true,
			Secrets: VaultSecrets{
				APIKeys:   "secret/data/api-keys",
				GeminiKey: "secret/data/gemini",
				TLSCerts:  "secret/data/tls",
			},
		},
	}

	require.NoError(t, applySecrets(reader, config, nil))

	assert.Equal(t, []string{"key-one", "key-two"}, config.Server.APIKeys)
	assert.Equal(t, "gemini-secret-key", config.AI.APIKey)
	assert.Equal(t, "gemini-secret-key", config.AI.Feedback.APIKey)
	assert.Equal(t, "CERT", config.Server.TLS.CertContent)
	assert.Equal(t, "KEY", config.Server.TLS.KeyContent)
	assert.Empty(t, config.Server.TLS.CAContent)
	assert.Len(t, reader.reads, 3)
}

func TestApplySecretsErrors(t *testing.T) {
	tests := []struct {
		name    string
		secrets VaultSecrets
		data    map[string]*VaultSecret
		errText string
	}{
		{
			name:    "missing api keys secret",
			secrets: VaultSecrets{APIKeys: "secret/data/missing"},
			errText: "failed to load API keys from vault",
		},
		{
			name:    "api keys field has wrong type",
			secrets: VaultSecrets{APIKeys: "secret/data/api-keys"},
			data:    map[string]*VaultSecret{"secret/data/api-keys": {Data: map[string]any{"keys": 42}}},
			errText: "is not a string",
		},
		{
			name:    "gemini key field missing",
			secrets: VaultSecrets{GeminiKey: "secret/data/gemini"},
			data:    map[string]*VaultSecret{"secret/data/gemini": {Data: map[string]any{}}},
			errText: "key 'api_key' not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeSecretReader{secrets: tt.data}
			config := &Config{Vault: VaultConfig{Enabled: true, Secrets: tt.secrets}}

			err := applySecrets(reader, config, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(config, nil))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****mnop", MaskSecret("abcdefghijklmnop"))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "", MaskSecret(""))
}
