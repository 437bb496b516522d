package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/bnema/copilot-usage/internal/adapters/autostart"
	"github.com/bnema/copilot-usage/internal/adapters/browser"
	"github.com/bnema/copilot-usage/internal/adapters/github"
	"github.com/bnema/copilot-usage/internal/adapters/indicator"
	"github.com/bnema/copilot-usage/internal/adapters/indicator/terminal"
	"github.com/bnema/copilot-usage/internal/adapters/notify"
	tomlrepo "github.com/bnema/copilot-usage/internal/adapters/repo/toml"
	chainstore "github.com/bnema/copilot-usage/internal/adapters/secrets/chain"
	credentialstore "github.com/bnema/copilot-usage/internal/adapters/secrets/credential"
	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/config"
	"github.com/bnema/copilot-usage/internal/logger"
	"github.com/bnema/copilot-usage/internal/ports"
)

const (
	logFileName = "copilot-usage.log"

	// logToFileAnnotation marks commands that own the terminal, so logs go to
	// the state directory instead of stderr.
	logToFileAnnotation = "cu/log-to-file"
)

type wireOptions struct {
	configPath string
	logLevel   string
}

type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *application.Service
	prefs     *tomlrepo.Repository
	indicator *indicator.Fanout
	notifier  ports.Notifier

	renderUsage func(application.UsageState, terminal.RenderOptions) (string, error)
	now         func() time.Time

	closers []func()
}

func (a *app) wire(cmd *cobra.Command, opts wireOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	log, err := a.newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	remote, err := github.NewClient(github.Config{
		ClientID: cfg.GitHubClientID,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: cfg.GitHubDeviceAuthURL,
			TokenURL:      cfg.GitHubTokenURL,
		},
		APIBaseURL: cfg.GitHubAPIURL,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("wire github client: %w", err)
	}

	secrets, err := chainstore.NewDefault(cfg.KeyringService, cfg.SecretsDir)
	if err != nil {
		return fmt.Errorf("wire secret store chain: %w", err)
	}

	prefs, err := tomlrepo.NewRepository(cfg.Viper)
	if err != nil {
		return fmt.Errorf("wire preferences store: %w", err)
	}

	autostartPort, err := newAutostart()
	if err != nil {
		return err
	}

	var notifier ports.Notifier = notify.Discard{}
	if cfg.Notifications {
		notifier = notify.NewNotifier("")
	}

	fanout := indicator.NewFanout()
	service := application.NewService(application.Dependencies{
		Remote:          remote,
		Identity:        remote,
		Credentials:     credentialstore.NewStore(secrets, credentialstore.DefaultKey),
		Preferences:     prefs,
		Autostart:       autostartPort,
		Sink:            fanout,
		Opener:          browser.NewOpener(cfg.NoBrowser, cmd.ErrOrStderr()),
		Clock:           ports.SystemClock{},
		RefreshInterval: cfg.RefreshInterval,
		Logger:          log,
	})

	a.cfg = cfg
	a.logger = log
	a.service = service
	a.prefs = prefs
	a.indicator = fanout
	a.notifier = notifier
	a.renderUsage = terminal.Render
	a.now = time.Now
	a.closers = append(a.closers, service.Close)

	log.Debug("wired",
		zap.String("config", cfg.Path),
		zap.Duration("refresh_interval", cfg.RefreshInterval),
	)
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	if cmd.Annotations[logToFileAnnotation] != "" {
		if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		path := filepath.Join(cfg.StateDir, logFileName)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		log, err := logger.NewWriterLogger(file, cfg.LogLevel)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("wire logger: %w", err)
		}
		a.closers = append(a.closers, func() {
			_ = log.Sync()
			_ = file.Close()
		})
		return log, nil
	}

	if cfg.LogEnv == "prod" {
		log, err := logger.NewLogger(cfg.LogEnv, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("wire logger: %w", err)
		}
		a.closers = append(a.closers, func() { _ = log.Sync() })
		return log, nil
	}

	log, err := logger.NewWriterLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}
	return log, nil
}

func newAutostart() (ports.Autostart, error) {
	command, err := autostart.DefaultCommand()
	if err != nil {
		return nil, fmt.Errorf("resolve autostart command: %w", err)
	}

	manager, err := autostart.NewManager(command)
	if err != nil {
		return nil, fmt.Errorf("wire autostart: %w", err)
	}
	return manager, nil
}
