package ssl

import (
	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/logging"
)

// Advanced option keys for SSL configuration. Certificate material is
// carried inline: the frontend reads files client-side and sends the PEM
// content directly. There are deliberately no path-based keys: server-side
// file reads were removed to rule out path traversal, and must not return.
const (
	KeySSLMode              = "SSL Mode"
	KeySSLCACertContent     = "SSL CA Content"
	KeySSLClientCertContent = "SSL Client Cert Content"
	KeySSLClientKeyContent  = "SSL Client Key Content"
	KeySSLServerName        = "SSL Server Name"
)

// CertificateInput holds one piece of PEM material (CA certificate,
// client certificate, or client key) supplied in-memory.
type CertificateInput struct {
	Content string `json:"content" yaml:"content"`
}

// Load resolves the input to PEM bytes. A nil or empty input yields
// (nil, nil): absent material is not an error. The content is returned
// verbatim; PEM structure is checked where the bytes are consumed.
func (c *CertificateInput) Load() ([]byte, error) {
	if c == nil || c.Content == "" {
		return nil, nil
	}
	return []byte(c.Content), nil
}

// IsEmpty reports whether no certificate material is configured.
func (c *CertificateInput) IsEmpty() bool {
	return c == nil || c.Content == ""
}

// SSLConfig is the desired transport-security posture for one database
// connection. It is built fresh for every connection attempt and never
// mutated afterwards.
type SSLConfig struct {
	Mode       SSLMode          `json:"mode" yaml:"mode"`
	CACert     CertificateInput `json:"caCert" yaml:"caCert"`
	ClientCert CertificateInput `json:"clientCert" yaml:"clientCert"`
	ClientKey  CertificateInput `json:"clientKey" yaml:"clientKey"`
	// ServerName overrides the connection hostname for identity
	// verification in verify-identity mode.
	ServerName string `json:"serverName" yaml:"serverName"`
}

// IsEnabled reports whether the config asks for any security layer.
func (c *SSLConfig) IsEnabled() bool {
	return c != nil && c.Mode != SSLModeDisabled && c.Mode != ""
}

// ParseSSLConfig extracts an SSLConfig from advanced connection options.
// The raw mode string is normalized through the registry first, so
// database-native spellings are accepted. Returns nil when SSL is
// disabled, or when the mode is not valid for the database type.
func ParseSSLConfig(reg *Registry, dbType engine.DatabaseType, advanced []engine.Record, hostname string) *SSLConfig {
	modeStr := engine.RecordValueOrDefault(advanced, KeySSLMode, string(SSLModeDisabled))
	mode := reg.Normalize(dbType, modeStr)

	if !reg.Validate(dbType, mode) {
		logging.Op().Debug("ssl config rejected: mode not valid for database", "database", string(dbType), "mode", string(mode))
		return nil
	}
	if mode == SSLModeDisabled {
		return nil
	}

	return &SSLConfig{
		Mode:       mode,
		CACert:     CertificateInput{Content: engine.RecordValueOrDefault(advanced, KeySSLCACertContent, "")},
		ClientCert: CertificateInput{Content: engine.RecordValueOrDefault(advanced, KeySSLClientCertContent, "")},
		ClientKey:  CertificateInput{Content: engine.RecordValueOrDefault(advanced, KeySSLClientKeyContent, "")},
		ServerName: engine.RecordValueOrDefault(advanced, KeySSLServerName, hostname),
	}
}
