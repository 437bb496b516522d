package toml

import "fmt"

const currentSchemaVersion = 1

// fileSchema is the part of config.toml this package owns. Other tables in the
// file belong to the config loader and are preserved on write.
type fileSchema struct {
	Version int           `toml:"version"`
	Display displaySchema `toml:"display"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type displaySchema struct {
	ShowBar     *bool `toml:"show_bar,omitempty"`
	ShowPercent *bool `toml:"show_percent,omitempty"`
}

func (d displaySchema) value(key string) *bool {
	switch key {
	case displayShowBarKey:
		return d.ShowBar
	case displayShowPercentKey:
		return d.ShowPercent
	default:
		return nil
	}
}
