// Package profile manages persisted connection profiles: named database
// connection definitions the frontend selects from, including the raw SSL
// settings the security layer is built from.
package profile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/ssl"
)

// Profile is one saved connection definition.
type Profile struct {
	ID       string              `yaml:"id" json:"id"`
	Name     string              `yaml:"name" json:"name"`
	Type     engine.DatabaseType `yaml:"type" json:"type"`
	Hostname string              `yaml:"hostname" json:"hostname"`
	Port     int                 `yaml:"port,omitempty" json:"port,omitempty"`
	Username string              `yaml:"username,omitempty" json:"username,omitempty"`
	Password string              `yaml:"password,omitempty" json:"-"`
	Database string              `yaml:"database,omitempty" json:"database,omitempty"`
	// Advanced carries engine-specific options, including the SSL keys.
	Advanced []engine.Record `yaml:"advanced,omitempty" json:"advanced,omitempty"`
}

// New creates a profile with a fresh ID.
func New(name string, dbType engine.DatabaseType, hostname string) *Profile {
	return &Profile{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     dbType,
		Hostname: hostname,
	}
}

// Validate checks the fields every connector needs.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.Type == "" {
		return fmt.Errorf("profile database type is required")
	}
	if p.Hostname == "" && p.Type != engine.DatabaseTypeSqlite3 {
		return fmt.Errorf("profile hostname is required")
	}
	return nil
}

// SSLConfig derives the SSL configuration from the profile's advanced
// options. Returns nil when SSL is disabled or the stored mode is not
// valid for the profile's engine.
func (p *Profile) SSLConfig(reg *ssl.Registry) *ssl.SSLConfig {
	return ssl.ParseSSLConfig(reg, p.Type, p.Advanced, p.Hostname)
}

// Fingerprint identifies the connection a profile resolves to, for use as
// a cache key. It covers everything that changes which server is reached
// and how the transport is secured, and omits the password.
func (p *Profile) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s|%s", p.Type, p.Hostname, p.Port, p.Username, p.Database)
	for _, r := range p.Advanced {
		fmt.Fprintf(h, "|%s=%s", r.Key, r.Value)
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
