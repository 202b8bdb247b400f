// Package ssl resolves per-database SSL mode configuration and builds the
// tls.Config handed to database connectors. Modes are unified across
// engines: database-native spellings (PostgreSQL "require", MySQL
// "VERIFY_CA") are accepted as aliases and normalized to the canonical
// values below.
package ssl

import (
	"slices"
	"sync"

	"github.com/oriys/quasar/internal/engine"
)

// SSLMode is a canonical transport-security mode, shared by all engines.
type SSLMode string

const (
	SSLModeDisabled       SSLMode = "disabled"        // no TLS
	SSLModePreferred      SSLMode = "preferred"       // TLS if the server offers it (MySQL)
	SSLModeRequired       SSLMode = "required"        // TLS mandatory, no certificate verification
	SSLModeVerifyCA       SSLMode = "verify-ca"       // verify chain against CA, ignore hostname
	SSLModeVerifyIdentity SSLMode = "verify-identity" // verify chain and hostname (PostgreSQL: verify-full)
	SSLModeEnabled        SSLMode = "enabled"         // TLS with standard verification, CA optional
	SSLModeInsecure       SSLMode = "insecure"        // TLS with all verification skipped
)

// SSLModeInfo is the display metadata for one mode, as served to the
// frontend mode picker.
type SSLModeInfo struct {
	Value       SSLMode `json:"value"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

var (
	ModeInfoDisabled       = SSLModeInfo{SSLModeDisabled, "Disabled", "No SSL/TLS encryption"}
	ModeInfoPreferred      = SSLModeInfo{SSLModePreferred, "Preferred", "Use TLS if server supports it"}
	ModeInfoRequired       = SSLModeInfo{SSLModeRequired, "Required", "Require TLS, skip certificate verification"}
	ModeInfoVerifyCA       = SSLModeInfo{SSLModeVerifyCA, "Verify CA", "Verify server certificate against CA"}
	ModeInfoVerifyIdentity = SSLModeInfo{SSLModeVerifyIdentity, "Verify Identity", "Verify CA and server hostname"}
	ModeInfoEnabled        = SSLModeInfo{SSLModeEnabled, "Enabled", "Enable TLS with certificate verification"}
	ModeInfoInsecure       = SSLModeInfo{SSLModeInsecure, "Insecure", "Enable TLS, skip certificate verification"}
)

// Mode sets shared by engines with the same SSL surface.
var (
	modesStandard      = []SSLModeInfo{ModeInfoDisabled, ModeInfoRequired, ModeInfoVerifyCA, ModeInfoVerifyIdentity}
	modesWithPreferred = []SSLModeInfo{ModeInfoDisabled, ModeInfoPreferred, ModeInfoRequired, ModeInfoVerifyCA, ModeInfoVerifyIdentity}
	modesSimple        = []SSLModeInfo{ModeInfoDisabled, ModeInfoEnabled, ModeInfoInsecure}
)

var (
	postgresAliases = map[string]SSLMode{
		"disable":     SSLModeDisabled,
		"require":     SSLModeRequired,
		"verify-full": SSLModeVerifyIdentity,
	}
	mysqlAliases = map[string]SSLMode{
		"DISABLED":        SSLModeDisabled,
		"PREFERRED":       SSLModePreferred,
		"REQUIRED":        SSLModeRequired,
		"VERIFY_CA":       SSLModeVerifyCA,
		"VERIFY_IDENTITY": SSLModeVerifyIdentity,
	}
)

// Registry holds the SSL mode tables per database type. It is safe for
// concurrent use; new engines register their modes at startup through
// Register / RegisterAliases.
type Registry struct {
	mu      sync.RWMutex
	modes   map[engine.DatabaseType][]SSLModeInfo
	aliases map[engine.DatabaseType]map[string]SSLMode
}

// NewRegistry returns a registry seeded with the built-in engines.
// Sqlite3 has no entry: file-backed databases have no transport to secure.
func NewRegistry() *Registry {
	return &Registry{
		modes: map[engine.DatabaseType][]SSLModeInfo{
			engine.DatabaseTypePostgres:      modesStandard,
			engine.DatabaseTypeMySQL:         modesWithPreferred,
			engine.DatabaseTypeMariaDB:       modesWithPreferred,
			engine.DatabaseTypeClickHouse:    modesSimple,
			engine.DatabaseTypeMongoDB:       modesSimple,
			engine.DatabaseTypeRedis:         modesSimple,
			engine.DatabaseTypeElasticSearch: modesSimple,
		},
		aliases: map[engine.DatabaseType]map[string]SSLMode{
			engine.DatabaseTypePostgres: postgresAliases,
			engine.DatabaseTypeMySQL:    mysqlAliases,
			engine.DatabaseTypeMariaDB:  mysqlAliases,
		},
	}
}

// Register inserts or replaces the mode list for a database type.
func (r *Registry) Register(dbType engine.DatabaseType, modes []SSLModeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes[dbType] = modes
}

// RegisterAliases inserts or replaces the native-name alias map for a
// database type.
func (r *Registry) RegisterAliases(dbType engine.DatabaseType, aliases map[string]SSLMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[dbType] = aliases
}

// Unregister removes a database type from the registry. Intended for test
// cleanup after Register.
func (r *Registry) Unregister(dbType engine.DatabaseType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modes, dbType)
	delete(r.aliases, dbType)
}

// Modes returns the available SSL modes for a database type, or nil when
// the engine has no SSL support.
func (r *Registry) Modes(dbType engine.DatabaseType) []SSLModeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modes[dbType]
}

// Validate reports whether mode is a valid choice for the database type.
func (r *Registry) Validate(dbType engine.DatabaseType, mode SSLMode) bool {
	return slices.ContainsFunc(r.Modes(dbType), func(m SSLModeInfo) bool {
		return m.Value == mode
	})
}

// Normalize converts a database-native mode name to its canonical value.
// Canonical values pass through unchanged, as does any string with no
// registered alias; rejecting unknown modes is Validate's job, not
// Normalize's.
func (r *Registry) Normalize(dbType engine.DatabaseType, mode string) SSLMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if aliases, ok := r.aliases[dbType]; ok {
		if normalized, found := aliases[mode]; found {
			return normalized
		}
	}
	return SSLMode(mode)
}

// Aliases returns the accepted native spellings for a canonical mode,
// e.g. ["require"] for PostgreSQL's required mode. Nil when none exist.
func (r *Registry) Aliases(dbType engine.DatabaseType, mode SSLMode) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	aliases, ok := r.aliases[dbType]
	if !ok {
		return nil
	}
	var result []string
	for alias, normalized := range aliases {
		if normalized == mode {
			result = append(result, alias)
		}
	}
	return result
}

// HasSSLSupport reports whether the database type has any registered modes.
func (r *Registry) HasSSLSupport(dbType engine.DatabaseType) bool {
	return r.Modes(dbType) != nil
}

// defaultRegistry backs the package-level API below. Services that want
// an isolated registry construct their own with NewRegistry.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// RegisterDatabaseSSLModes registers SSL modes for a new engine on the
// default registry.
func RegisterDatabaseSSLModes(dbType engine.DatabaseType, modes []SSLModeInfo) {
	defaultRegistry.Register(dbType, modes)
}

// RegisterSSLModeAliases registers native-name aliases for a new engine
// on the default registry.
func RegisterSSLModeAliases(dbType engine.DatabaseType, aliases map[string]SSLMode) {
	defaultRegistry.RegisterAliases(dbType, aliases)
}

// GetSSLModes returns the available SSL modes for a database type, or nil
// for engines without SSL support (e.g. Sqlite3).
func GetSSLModes(dbType engine.DatabaseType) []SSLModeInfo {
	return defaultRegistry.Modes(dbType)
}

// ValidateSSLMode checks whether mode is valid for the database type.
func ValidateSSLMode(dbType engine.DatabaseType, mode SSLMode) bool {
	return defaultRegistry.Validate(dbType, mode)
}

// NormalizeSSLMode converts a database-native mode name to the unified
// name, e.g. PostgreSQL "require" to "required". Unknown names pass
// through unchanged.
func NormalizeSSLMode(dbType engine.DatabaseType, mode string) SSLMode {
	return defaultRegistry.Normalize(dbType, mode)
}

// GetSSLModeAliases returns the accepted alias names for a mode.
func GetSSLModeAliases(dbType engine.DatabaseType, mode SSLMode) []string {
	return defaultRegistry.Aliases(dbType, mode)
}

// HasSSLSupport reports whether the database type supports SSL at all.
func HasSSLSupport(dbType engine.DatabaseType) bool {
	return defaultRegistry.HasSSLSupport(dbType)
}
