// Package hooks provides a hook subsystem for extensibility.
//
// Hooks are executable scripts placed under a per-event directory, e.g.
// ~/.config/deptdesk/hooks/on-notification/. Every script receives the
// event context as environment variables and runs in lexical order.
package hooks

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/deptdesk/deptdesk/internal/config"
	"github.com/deptdesk/deptdesk/internal/logging"
)

// Hook events fired by the client.
const (
	EventLogin        = "on-login"
	EventLogout       = "on-logout"
	EventNotification = "on-notification"
)

// Failure modes for hook errors.
const (
	FailureAbort  = "abort"
	FailureWarn   = "warn"
	FailureIgnore = "ignore"
)

// Dir returns the hooks directory path. The DEPTDESK_HOOKS_DIR
// environment variable takes precedence over the hooks_dir config key.
func Dir() string {
	if dir := os.Getenv("DEPTDESK_HOOKS_DIR"); dir != "" {
		return dir
	}
	if dir := config.Get("hooks_dir", ""); dir != "" {
		return dir
	}
	if configDir := os.Getenv("XDG_CONFIG_HOME"); configDir != "" {
		return filepath.Join(configDir, "deptdesk", "hooks")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "deptdesk", "hooks")
}

func failureMode() string {
	if mode := os.Getenv("DEPTDESK_HOOKS_FAILURE_MODE"); mode != "" {
		return mode
	}
	return config.Get("hooks_failure_mode", FailureWarn)
}

// Run executes every hook script registered for the event, in lexical
// order. The env map is exported to the scripts on top of the current
// environment. A missing event directory means no hooks.
func Run(event string, env map[string]string) error {
	dir := filepath.Join(Dir(), event)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	mode := failureMode()
	for _, name := range names {
		if err := runHook(filepath.Join(dir, name), event, env, mode); err != nil {
			return err
		}
	}
	return nil
}

func runHook(path, event string, env map[string]string, mode string) error {
	start := time.Now()
	cmd := exec.Command(path)
	cmd.Env = append(os.Environ(), "DEPTDESK_HOOK_EVENT="+event)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	duration := time.Since(start)
	if err != nil {
		logging.Warn("hook failed", "event", event, "hook", filepath.Base(path), "error", err)
		switch mode {
		case FailureAbort:
			return fmt.Errorf("hook %s failed: %w", filepath.Base(path), err)
		case FailureIgnore:
		default:
			_, _ = fmt.Fprintf(os.Stderr, "warning: hook %s failed: %v\n", filepath.Base(path), err)
		}
		return nil
	}

	logging.Debug("hook completed", "event", event, "hook", filepath.Base(path), "duration", duration)
	return nil
}
