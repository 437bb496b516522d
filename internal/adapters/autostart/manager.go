// Package autostart registers the agent to launch at login using the
// platform's per-user mechanism.
package autostart

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

const (
	entryName    = "copilot-usage"
	launchdLabel = "com.github.copilot-usage"
	fileMode     = 0o644
	dirMode      = 0o755
)

type Manager struct {
	goos    string
	path    string
	command []string
}

var _ ports.Autostart = (*Manager)(nil)

// NewManager builds a manager for the current platform. command is the
// program and arguments to run at login.
func NewManager(command []string) (*Manager, error) {
	return newManager(runtime.GOOS, command)
}

func newManager(goos string, command []string) (*Manager, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, errors.New("autostart command is empty")
	}

	var path string
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config directory: %w", err)
		}
		path = filepath.Join(configDir, "autostart", entryName+".desktop")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist")
	}

	return &Manager{goos: goos, path: path, command: command}, nil
}

// DefaultCommand runs the current executable as a background agent.
func DefaultCommand() ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return []string{exe, "agent"}, nil
}

func (m *Manager) Enable(ctx context.Context) error {
	if m.path == "" {
		return domain.ErrAutostartUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var content string
	if m.goos == "darwin" {
		content = launchAgentPlist(m.command)
	} else {
		content = desktopEntry(m.command)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), dirMode); err != nil {
		return fmt.Errorf("create autostart directory: %w", err)
	}
	if err := os.WriteFile(m.path, []byte(content), fileMode); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	return nil
}

func (m *Manager) Disable(ctx context.Context) error {
	if m.path == "" {
		return domain.ErrAutostartUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove autostart entry: %w", err)
	}
	return nil
}

func (m *Manager) IsEnabled(ctx context.Context) (bool, error) {
	if m.path == "" {
		return false, domain.ErrAutostartUnsupported
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(m.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat autostart entry: %w", err)
}

func desktopEntry(command []string) string {
	quoted := make([]string, len(command))
	for i, arg := range command {
		quoted[i] = desktopQuote(arg)
	}

	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=GitHub Copilot Usage\n")
	b.WriteString("Comment=Shows GitHub Copilot premium request usage\n")
	fmt.Fprintf(&b, "Exec=%s\n", strings.Join(quoted, " "))
	b.WriteString("Terminal=false\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return b.String()
}

// desktopQuote quotes one argument for the Exec key of a .desktop file.
func desktopQuote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n\"'\\><~|&;$*?#()`%") {
		return arg
	}
	replacer := strings.NewReplacer(`\`, `\\\\`, `"`, `\\"`, "`", "\\\\`", `$`, `\\$`, `%`, `%%`)
	return `"` + replacer.Replace(arg) + `"`
}

func launchAgentPlist(command []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	b.WriteString(`<plist version="1.0">` + "\n<dict>\n")
	fmt.Fprintf(&b, "\t<key>Label</key>\n\t<string>%s</string>\n", xmlEscape(launchdLabel))
	b.WriteString("\t<key>ProgramArguments</key>\n\t<array>\n")
	for _, arg := range command {
		fmt.Fprintf(&b, "\t\t<string>%s</string>\n", xmlEscape(arg))
	}
	b.WriteString("\t</array>\n")
	b.WriteString("\t<key>RunAtLoad</key>\n\t<true/>\n")
	b.WriteString("</dict>\n</plist>\n")
	return b.String()
}

func xmlEscape(value string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(value))
	return b.String()
}
