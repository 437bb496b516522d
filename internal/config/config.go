// Package config loads settings from the TOML config file, an optional .env
// file next to it, and CU_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "CU"

	appDirName     = "copilot-usage"
	configFileName = "config.toml"
	envFileName    = ".env"

	KeyPreferencesPath = "preferences.path"
	KeyLogEnv          = "log.env"
	KeyLogLevel        = "log.level"
	KeyRefreshInterval = "refresh.interval"
	KeyGitHubClientID  = "github.client_id"
	KeyGitHubDeviceURL = "github.device_auth_url"
	KeyGitHubTokenURL  = "github.token_url"
	KeyGitHubAPIURL    = "github.api_url"
	KeyNoBrowser       = "browser.disabled"
	KeyAgentListen     = "agent.listen"
	KeyNotifications   = "notifications.enabled"
	KeySecretsDir      = "secrets.dir"
	KeyKeyringService  = "secrets.keyring_service"

	DefaultRefreshInterval = 5 * time.Minute
	DefaultListenAddr      = "127.0.0.1:42847"
	minRefreshInterval     = 30 * time.Second
)

type Config struct {
	Path     string
	LogEnv   string
	LogLevel string

	RefreshInterval time.Duration

	GitHubClientID      string
	GitHubDeviceAuthURL string
	GitHubTokenURL      string
	GitHubAPIURL        string

	NoBrowser     bool
	ListenAddr    string
	Notifications bool

	SecretsDir     string
	KeyringService string
	StateDir       string

	// Viper is the loaded configuration, shared with the preferences store.
	Viper *viper.Viper
}

// Load reads the config at path, or the default location when path is empty.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}
	if path == "" {
		path = filepath.Join(configDir, appDirName, configFileName)
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	envPath := filepath.Join(filepath.Dir(path), envFileName)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	stateDir, err := defaultStateDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPreferencesPath, path)
	v.SetDefault(KeyLogEnv, "local")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyRefreshInterval, DefaultRefreshInterval.String())
	v.SetDefault(KeyGitHubClientID, "Iv1.b507a08c87ecfe98")
	v.SetDefault(KeyGitHubDeviceURL, "https://github.com/login/device/code")
	v.SetDefault(KeyGitHubTokenURL, "https://github.com/login/oauth/access_token")
	v.SetDefault(KeyGitHubAPIURL, "https://api.github.com/")
	v.SetDefault(KeyNoBrowser, false)
	v.SetDefault(KeyAgentListen, DefaultListenAddr)
	v.SetDefault(KeyNotifications, true)
	v.SetDefault(KeySecretsDir, filepath.Join(stateDir, "secrets"))
	v.SetDefault(KeyKeyringService, appDirName)

	// Short aliases next to the derived CU_BROWSER_DISABLED and CU_AGENT_LISTEN.
	for key, env := range map[string]string{
		KeyNoBrowser:   "CU_NO_BROWSER",
		KeyAgentListen: "CU_LISTEN",
	} {
		if err := v.BindEnv(key, envName(key), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	interval, err := parseInterval(v.GetString(KeyRefreshInterval))
	if err != nil {
		return nil, err
	}

	return &Config{
		Path:                path,
		LogEnv:              v.GetString(KeyLogEnv),
		LogLevel:            v.GetString(KeyLogLevel),
		RefreshInterval:     interval,
		GitHubClientID:      v.GetString(KeyGitHubClientID),
		GitHubDeviceAuthURL: v.GetString(KeyGitHubDeviceURL),
		GitHubTokenURL:      v.GetString(KeyGitHubTokenURL),
		GitHubAPIURL:        v.GetString(KeyGitHubAPIURL),
		NoBrowser:           v.GetBool(KeyNoBrowser),
		ListenAddr:          v.GetString(KeyAgentListen),
		Notifications:       v.GetBool(KeyNotifications),
		SecretsDir:          v.GetString(KeySecretsDir),
		KeyringService:      v.GetString(KeyKeyringService),
		StateDir:            stateDir,
		Viper:               v,
	}, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// parseInterval accepts Go durations ("2m", "90s") and plain seconds.
func parseInterval(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	interval, err := time.ParseDuration(raw)
	if err != nil {
		secs, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", KeyRefreshInterval, raw, err)
		}
		interval = time.Duration(secs) * time.Second
	}
	if interval < minRefreshInterval {
		return 0, fmt.Errorf("invalid %s %q: must be at least %s", KeyRefreshInterval, raw, minRefreshInterval)
	}
	return interval, nil
}

func defaultStateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", appDirName), nil
}
