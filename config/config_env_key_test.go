package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"accessGate": map[string]any{
			"secret": "",
		},
		"auth": map[string]any{
			"resetTokenTTL": "1h",
		},
		"mail": map[string]any{
			"baseUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "ACCESSGATE_SECRET", want: "accessGate.secret"},
		{envKey: "AUTH_RESETTOKENTTL", want: "auth.resetTokenTTL"},
		{envKey: "MAIL_BASEURL", want: "mail.baseUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.AccessGate.Secret = "s3cret"

	require.NoError(t, cfg.applyDefaults())

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, defaultSQLitePath, cfg.Database.SQLite.Path)
	assert.Equal(t, defaultAPIKeyHeader, cfg.AccessGate.Header)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, MailProviderLog, cfg.Mail.Provider)
	assert.Equal(t, defaultMailBaseURL, cfg.Mail.BaseURL)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
}

func TestApplyDefaults_RequiresSecretWhenGateEnforcing(t *testing.T) {
	t.Setenv(DisableAuthEnv, "")

	cfg := &Config{}
	assert.Error(t, cfg.applyDefaults())
}

func TestApplyDefaults_EscapeHatchSkipsSecret(t *testing.T) {
	t.Setenv(DisableAuthEnv, "1")

	cfg := &Config{}
	require.NoError(t, cfg.applyDefaults())
	assert.True(t, cfg.AuthDisabled())
}

func TestApplyDefaults_RejectsUnknownDriver(t *testing.T) {
	cfg := &Config{}
	cfg.AccessGate.Secret = "x"
	cfg.Database.Driver = "oracle"

	assert.Error(t, cfg.applyDefaults())
}

func TestApplyDefaults_PostgresNeedsSection(t *testing.T) {
	cfg := &Config{}
	cfg.AccessGate.Secret = "x"
	cfg.Database.Driver = "Postgres"

	assert.Error(t, cfg.applyDefaults())
}
