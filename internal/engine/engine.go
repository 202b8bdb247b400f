// Package engine defines the database-engine identifiers and the small
// shared types the connection layer passes between components. It carries
// no driver code; connectors live in internal/connect.
package engine

// DatabaseType identifies a supported database engine.
type DatabaseType string

const (
	DatabaseTypePostgres      DatabaseType = "Postgres"
	DatabaseTypeMySQL         DatabaseType = "MySQL"
	DatabaseTypeMariaDB       DatabaseType = "MariaDB"
	DatabaseTypeSqlite3       DatabaseType = "Sqlite3"
	DatabaseTypeMongoDB       DatabaseType = "MongoDB"
	DatabaseTypeRedis         DatabaseType = "Redis"
	DatabaseTypeElasticSearch DatabaseType = "ElasticSearch"
	DatabaseTypeClickHouse    DatabaseType = "ClickHouse"
)

// AllDatabaseTypes lists every engine known to this build, in display order.
var AllDatabaseTypes = []DatabaseType{
	DatabaseTypePostgres,
	DatabaseTypeMySQL,
	DatabaseTypeMariaDB,
	DatabaseTypeSqlite3,
	DatabaseTypeMongoDB,
	DatabaseTypeRedis,
	DatabaseTypeElasticSearch,
	DatabaseTypeClickHouse,
}

// Record is a single advanced connection option as entered in a profile
// or the connection form.
type Record struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// RecordValueOrDefault returns the value for key, or def when the key is
// absent. Keys match exactly; the first occurrence wins.
func RecordValueOrDefault(records []Record, key, def string) string {
	for _, r := range records {
		if r.Key == key {
			return r.Value
		}
	}
	return def
}

// SSLStatus describes the effective transport security of a connection,
// as reported by a connector (queried live where the engine exposes it,
// otherwise derived from configuration).
type SSLStatus struct {
	IsEnabled bool   `json:"isEnabled"`
	Mode      string `json:"mode"`
}
