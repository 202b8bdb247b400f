package ssl

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"github.com/oriys/quasar/internal/logging"
)

// Builder turns an SSLConfig into a *tls.Config for a database driver.
// The zero value is not usable; construct with NewBuilder. A single
// Builder is safe for unlimited concurrent use; every Build call
// produces an independent config.
type Builder struct {
	verifier ChainVerifier
}

// NewBuilder returns a Builder using the standard x509 chain verifier.
func NewBuilder() *Builder {
	return &Builder{verifier: X509ChainVerifier{}}
}

// NewBuilderWithVerifier returns a Builder with a custom chain
// verification strategy for the verify-ca path.
func NewBuilderWithVerifier(v ChainVerifier) *Builder {
	return &Builder{verifier: v}
}

var defaultBuilder = NewBuilder()

// BuildTLSConfig creates a *tls.Config from cfg using the default builder.
// serverHostname is the connection hostname, used for identity
// verification when the config does not name a server itself.
// Returns (nil, nil) when cfg is nil or SSL is disabled.
func BuildTLSConfig(cfg *SSLConfig, serverHostname string) (*tls.Config, error) {
	return defaultBuilder.Build(cfg, serverHostname)
}

// Build creates a *tls.Config from cfg. Returns (nil, nil) when cfg is
// nil or SSL is disabled; the caller opens a plaintext connection.
func (b *Builder) Build(cfg *SSLConfig, serverHostname string) (*tls.Config, error) {
	if cfg == nil || cfg.Mode == SSLModeDisabled || cfg.Mode == "" {
		return nil, nil
	}

	tlsConfig := &tls.Config{}

	switch cfg.Mode {
	case SSLModeInsecure, SSLModePreferred, SSLModeRequired:
		// Encryption is negotiated but trust decisions are skipped.
		// "required" follows common database-driver semantics: the
		// transport must be encrypted, verification is not implied.
		tlsConfig.InsecureSkipVerify = true
		return tlsConfig, nil
	case SSLModeEnabled:
		// Standard verification. CA is optional: without one the
		// platform trust store applies.
		if !cfg.CACert.IsEmpty() {
			if err := loadRootCAs(tlsConfig, &cfg.CACert); err != nil {
				return nil, err
			}
		}
		if err := loadClientCerts(tlsConfig, &cfg.ClientCert, &cfg.ClientKey); err != nil {
			return nil, err
		}
		return tlsConfig, nil
	}

	// verify-ca and verify-identity.
	var rootCAs *x509.CertPool
	if !cfg.CACert.IsEmpty() {
		if err := loadRootCAs(tlsConfig, &cfg.CACert); err != nil {
			return nil, err
		}
		rootCAs = tlsConfig.RootCAs
	}

	if err := loadClientCerts(tlsConfig, &cfg.ClientCert, &cfg.ClientKey); err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case SSLModeVerifyCA:
		// Chain must validate, hostname must not be checked. The
		// built-in verifier couples the two, so it is disabled and a
		// chain-only callback installed in its place. Without a CA pool
		// there is nothing to verify against and the mode degrades to
		// required.
		tlsConfig.InsecureSkipVerify = true
		if rootCAs != nil {
			tlsConfig.VerifyConnection = chainOnlyConnectionVerifier(b.verifier, rootCAs)
		}
	case SSLModeVerifyIdentity:
		// Full verification. The config's server name wins over the
		// connection hostname.
		if cfg.ServerName != "" {
			tlsConfig.ServerName = cfg.ServerName
		} else if serverHostname != "" {
			tlsConfig.ServerName = serverHostname
		}
	}

	return tlsConfig, nil
}

// loadRootCAs parses the CA input into tlsConfig.RootCAs. Unparsable PEM
// is fatal: a supplied CA that cannot be used must never silently fall
// back to weaker trust.
func loadRootCAs(tlsConfig *tls.Config, caCert *CertificateInput) error {
	caPEM, err := caCert.Load()
	if err != nil {
		return fmt.Errorf("failed to load CA certificate: %w", err)
	}
	if caPEM == nil {
		return nil
	}

	rootCAs := x509.NewCertPool()
	if !rootCAs.AppendCertsFromPEM(caPEM) {
		return fmt.Errorf("failed to parse CA certificate PEM")
	}
	tlsConfig.RootCAs = rootCAs
	return nil
}

// loadClientCerts installs a client credential for mutual TLS. The cert
// and key are an all-or-nothing pair: a partial pair is treated as no
// pair at all.
func loadClientCerts(tlsConfig *tls.Config, clientCert, clientKey *CertificateInput) error {
	if clientCert.IsEmpty() || clientKey.IsEmpty() {
		return nil
	}

	certPEM, err := clientCert.Load()
	if err != nil {
		return fmt.Errorf("failed to load client certificate: %w", err)
	}
	keyPEM, err := clientKey.Load()
	if err != nil {
		return fmt.Errorf("failed to load client key: %w", err)
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		logging.Op().Warn("client certificate/key pair rejected", "error", err)
		return fmt.Errorf("failed to load client key pair: %w", err)
	}

	tlsConfig.Certificates = []tls.Certificate{cert}
	return nil
}
