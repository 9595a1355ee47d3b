package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Widget.LeadDays <= 0 {
		return fmt.Errorf("widget.lead_days must be > 0 (got %d)", c.Widget.LeadDays)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	for role, caps := range c.Policy {
		if role == "" {
			return fmt.Errorf("policy: empty role name")
		}
		for _, cap := range caps {
			if cap == "" {
				return fmt.Errorf("policy: role %q has an empty capability", role)
			}
		}
	}

	return nil
}
