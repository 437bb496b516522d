package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

const (
	PathKey = "preferences.path"

	configFileMode  = 0o600
	configDirMode   = 0o700
	configDirName   = "copilot-usage"
	configFileName  = "config.toml"
	tempFilePattern = ".config-*.toml.tmp"

	displayTable          = "display"
	displayShowBarKey     = "show_bar"
	displayShowPercentKey = "show_percent"
)

// preferenceKeys maps domain preference keys to their field in [display].
var preferenceKeys = map[string]string{
	domain.PrefShowBar:     displayShowBarKey,
	domain.PrefShowPercent: displayShowPercentKey,
}

// Repository persists display preferences in the [display] table of the
// TOML config file. Unset preferences read as true.
type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.PreferencesStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(PathKey)
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

// DefaultPath is $XDG_CONFIG_HOME/copilot-usage/config.toml or the platform
// equivalent.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(configDir, configDirName, configFileName), nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) GetBool(ctx context.Context, key string) (bool, error) {
	field, ok := preferenceKeys[key]
	if !ok {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownPreference, key)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return false, err
	}

	if value := file.Display.value(field); value != nil {
		return *value, nil
	}
	return true, nil
}

func (r *Repository) SetBool(ctx context.Context, key string, value bool) error {
	field, ok := preferenceKeys[key]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPreference, key)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.readSchema(); err != nil {
		return err
	}
	doc, err := r.readDocument()
	if err != nil {
		return err
	}

	display, _ := doc[displayTable].(map[string]any)
	if display == nil {
		display = map[string]any{}
	}
	display[field] = value
	doc[displayTable] = display
	if _, ok := doc["version"]; !ok {
		doc["version"] = currentSchemaVersion
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeDocument(doc)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read config file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode config file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) readDocument() (map[string]any, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	doc := map[string]any{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}
	return doc, nil
}

func (r *Repository) writeDocument(doc map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(r.path), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}

	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve preferences path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
