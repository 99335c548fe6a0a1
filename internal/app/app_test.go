package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"officegw/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, domain.EnvDevelopment, cfg.Env)
	require.True(t, cfg.Development())
	require.False(t, cfg.Silent)
	require.Equal(t, "https://graph.microsoft.com", cfg.Upstream.BaseURL)
}

func TestLoadConfig_HostEnvironmentKeys(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("MCP_LOG_PATH", "/var/log/officegw.log")
	t.Setenv("MCP_SILENT_MODE", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, domain.EnvProduction, cfg.Env)
	require.False(t, cfg.Development())
	require.Equal(t, "/var/log/officegw.log", cfg.LogPath)
	require.True(t, cfg.Silent)
}

func TestLoadConfig_UnknownEnvFallsBackToDevelopment(t *testing.T) {
	t.Setenv("NODE_ENV", "staging")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, domain.EnvDevelopment, cfg.Env)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "officegw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
upstream:
  baseUrl: https://example.test
  token: secret
observability:
  listen: 127.0.0.1:9090
storage:
  path: /tmp/userlogs.db
aliases:
  path: /etc/officegw/aliases.yaml
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "https://example.test", cfg.Upstream.BaseURL)
	require.Equal(t, "secret", cfg.Upstream.Token)
	require.Equal(t, "127.0.0.1:9090", cfg.ListenAddress)
	require.Equal(t, "/tmp/userlogs.db", cfg.StorePath)
	require.Equal(t, "/etc/officegw/aliases.yaml", cfg.AliasPath)
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadAliases_ParsesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
quickmail:
  module: mail
  method: sendEmail
agenda:
  module: calendar
  method: listEvents
`), 0o600))

	table, err := LoadAliases(path)
	require.NoError(t, err)
	require.Len(t, table, 2)
	require.Equal(t, domain.AliasEntry{ModuleID: "mail", Method: "sendEmail"}, table["quickmail"])
}

func TestLoadAliases_RejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
broken:
  module: mail
`), 0o600))

	_, err := LoadAliases(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "module and method are required")
}

func TestLoadAliases_MissingFile(t *testing.T) {
	_, err := LoadAliases(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
