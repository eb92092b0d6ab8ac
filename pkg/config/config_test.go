package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_TypesenseConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	os.Setenv("TYPESENSE_API_KEY", "test-key")
	defer func() {
		os.Unsetenv("TYPESENSE_URL")
		os.Unsetenv("TYPESENSE_API_KEY")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify Typesense config
	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
}

func TestLoad_AuthConfig(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("JWT_TOKEN_TTL", "2h")
	defer func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("JWT_TOKEN_TTL")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("TYPESENSE_URL")
	os.Unsetenv("TYPESENSE_API_KEY")
	os.Unsetenv("JWT_TOKEN_TTL")
	os.Unsetenv("UPLOAD_DIR")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, "xyz", cfg.Typesense.APIKey)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "./uploads", cfg.Storage.UploadDir)
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestWhatsAppConfig_Enabled(t *testing.T) {
	cfg := WhatsAppConfig{AccessToken: "token", PhoneNumberID: "12345"}
	assert.True(t, cfg.Enabled())

	cfg.PhoneNumberID = ""
	assert.False(t, cfg.Enabled())
}
