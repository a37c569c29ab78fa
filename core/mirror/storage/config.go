// Package storage provides read access to the mirror node database.
package storage

const (
	DriverPostgres = "postgres" // lib/pq
	DriverPG       = "pg"       // bun pgdriver
	DriverSQLite   = "sqlite"   // bun sqliteshim
)

// Config struct defines configuration parameters for the mirror storage.
type Config struct {
	DSN          string `koanf:"dsn"`          // Data Source Name for database connections. Empty selects in-memory storage.
	Driver       string `koanf:"driver"`       // One of postgres, pg or sqlite.
	MaxOpenConns int    `koanf:"maxOpenConns"` // Upper bound of open connections, 0 for unlimited.
	MaxIdleConns int    `koanf:"maxIdleConns"` // Upper bound of idle connections.
	CacheSizeMB  int    `koanf:"cacheSizeMB"`  // Size of the bytecode cache, 0 disables it.
}
