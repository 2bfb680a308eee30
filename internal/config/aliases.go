// Package config provides configuration file parsing for basketminer.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the basketminer config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/basketminer if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "basketminer"), nil
}

// AliasConfig maps raw item labels to canonical labels. Transaction
// exports often carry label variants ("coke", "coca-cola") that should
// count as one vocabulary entry; aliases consolidate them at load time.
type AliasConfig struct {
	Aliases map[string]string
}

// LoadAliases reads the aliases file at {dir}/aliases and returns the
// parsed config. Each line is "raw-label = canonical-label"; blank lines
// and # comments are skipped, as are malformed lines. A missing file is
// an empty config, not an error.
func LoadAliases(dir string) (*AliasConfig, error) {
	cfg := &AliasConfig{
		Aliases: make(map[string]string),
	}

	f, err := os.Open(filepath.Join(dir, "aliases"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue // no "=" or "=" is first character, skip
		}

		raw := strings.TrimSpace(line[:idx])
		canonical := strings.TrimSpace(line[idx+1:])
		if raw == "" || canonical == "" {
			continue
		}

		cfg.Aliases[raw] = canonical
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
