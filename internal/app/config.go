package app

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"officegw/internal/domain"
)

// Config is the resolved runtime configuration. Values come from an
// optional config file with environment variables on top; the three
// MCP_*/NODE_ENV keys are honored for host compatibility.
type Config struct {
	Env      string
	LogPath  string
	Silent   bool
	Upstream UpstreamConfig

	// ListenAddress serves /metrics and /healthz. Empty disables it.
	ListenAddress string

	// StorePath is the per-user log database. Empty disables persistence.
	StorePath string

	// AliasPath points at the YAML alias table. Empty keeps built-ins only.
	AliasPath string
}

type UpstreamConfig struct {
	BaseURL string
	Token   string
}

func (c Config) Development() bool {
	return c.Env != domain.EnvProduction
}

// LoadConfig reads path (optional) and the environment.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("env", domain.EnvDevelopment)
	v.SetDefault("upstream.baseUrl", "https://graph.microsoft.com")

	v.SetEnvPrefix("officegw")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range map[string]string{
		"env":     "NODE_ENV",
		"logPath": "MCP_LOG_PATH",
		"silent":  "MCP_SILENT_MODE",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Env:           v.GetString("env"),
		LogPath:       v.GetString("logPath"),
		Silent:        v.GetString("silent") == "true",
		ListenAddress: v.GetString("observability.listen"),
		StorePath:     v.GetString("storage.path"),
		AliasPath:     v.GetString("aliases.path"),
		Upstream: UpstreamConfig{
			BaseURL: v.GetString("upstream.baseUrl"),
			Token:   v.GetString("upstream.token"),
		},
	}
	if cfg.Env != domain.EnvProduction {
		cfg.Env = domain.EnvDevelopment
	}
	return cfg, nil
}
