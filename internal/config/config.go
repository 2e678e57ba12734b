package config

import (
	"errors"
	"fmt"

	"k8s.io/utils/env"
)

// DefaultPort is used when PORT is unset.
const DefaultPort = "3000"

// Config holds application configuration. It is loaded once at startup and
// immutable afterwards.
type Config struct {
	// RobloxCookie is the .ROBLOSECURITY session cookie of the ranking account.
	RobloxCookie string
	// GroupID is the Roblox group whose ranks this gateway manages.
	GroupID int64
	// APIKey is the shared secret callers must present in the x-api-key header.
	APIKey string

	// Server configuration
	Port      string
	DebugMode bool
}

// Load reads configuration from environment variables. The session cookie,
// group id and API key are required; without them the process must not start
// serving.
func Load() (*Config, error) {
	c := &Config{
		RobloxCookie: env.GetString("ROBLOX_COOKIE", ""),
		APIKey:       env.GetString("API_KEY", ""),
		Port:         env.GetString("PORT", DefaultPort),
	}

	if c.Port == "" {
		c.Port = DefaultPort
	}

	if c.RobloxCookie == "" {
		return nil, errors.New("ROBLOX_COOKIE is not set")
	}
	if c.APIKey == "" {
		return nil, errors.New("API_KEY is not set")
	}

	groupID, err := env.GetInt("GROUP_ID", 0)
	if err != nil {
		return nil, fmt.Errorf("GROUP_ID must be numeric: %w", err)
	}
	if groupID <= 0 {
		return nil, errors.New("GROUP_ID is not set")
	}
	c.GroupID = int64(groupID)

	debugMode, err := env.GetBool("DEBUG_MODE", false)
	if err != nil {
		return nil, fmt.Errorf("DEBUG_MODE must be a boolean: %w", err)
	}
	c.DebugMode = debugMode

	return c, nil
}
