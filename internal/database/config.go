package database

import (
	"fintrack/internal/config"
)

// Config holds the connection settings the Manager needs.
type Config struct {
	Driver         string
	DSN            string // GORM connection string (postgres key/value form or sqlite path)
	MigrateURL     string // golang-migrate database URL, postgres only
	MigrationsPath string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(app *config.Config) *Config {
	c := &Config{
		Driver:         app.DBDriver,
		MigrationsPath: app.MigrationsPath,
	}
	switch app.DBDriver {
	case DriverSQLite:
		c.DSN = app.DBPath
	default:
		c.Driver = DriverPostgres
		c.DSN = app.PostgresDSN()
		c.MigrateURL = app.PostgresURL()
	}
	return c
}
