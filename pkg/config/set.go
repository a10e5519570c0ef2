package config

import (
	"fmt"
	"strings"

	"sitescrape-go/pkg/backend"
)

// SetValue sets a configuration value by key.
// Format: backend or section.key (e.g., "cli.request_timeout")
func (c *Config) SetValue(keyPath, value string) error {
	if keyPath == "backend" {
		normalized := backend.NormalizeBaseURL(value)
		if normalized == "" {
			return fmt.Errorf("backend URL must not be empty")
		}
		c.Backend = normalized
		return nil
	}

	parts := strings.Split(keyPath, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format: expected 'backend' or 'section.key'")
	}
	section, key := parts[0], parts[1]

	switch section {
	case "cli":
		switch key {
		case "request_timeout":
			return setInt(&c.CLI.RequestTimeout, key, value)
		case "download_dir":
			c.CLI.DownloadDir = value
		case "preview_rows":
			return setInt(&c.CLI.PreviewRows, key, value)
		default:
			return fmt.Errorf("unknown cli key: %s", key)
		}
	case "log":
		switch key {
		case "file":
			c.Log.File = value
		case "level":
			c.Log.Level = value
		default:
			return fmt.Errorf("unknown log key: %s", key)
		}
	case "dev_backend":
		switch key {
		case "host":
			c.DevBackend.Host = value
		case "port":
			return setInt(&c.DevBackend.Port, key, value)
		case "plugins":
			var plugins []string
			for _, p := range strings.Split(value, ",") {
				if p = strings.TrimSpace(p); p != "" {
					plugins = append(plugins, p)
				}
			}
			c.DevBackend.Plugins = plugins
		case "rate_limit":
			var rate float64
			if _, err := fmt.Sscanf(value, "%g", &rate); err != nil || rate < 0 {
				return fmt.Errorf("invalid %s value: %s", key, value)
			}
			c.DevBackend.RateLimit = rate
		case "rate_burst":
			return setInt(&c.DevBackend.RateBurst, key, value)
		default:
			return fmt.Errorf("unknown dev_backend key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return nil
}

func setInt(dst *int, key, value string) error {
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return fmt.Errorf("invalid %s value: %s", key, value)
	}
	*dst = n
	return nil
}
