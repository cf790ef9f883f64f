package domain

import "time"

// Settings is the persisted configuration of the enablement flag.
type Settings struct {
	Enabled   bool      `yaml:"enabled" json:"enabled"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}
