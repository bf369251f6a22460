package store

import (
	"os"
	"time"
)

// Driver names
const (
	DriverMemory     = "memory"
	DriverFilesystem = "filesystem"
	DriverPostgres   = "postgres"
)

// Filesystem layout: <root>/<name>/<language>.yaml, the neutral language is
// stored as NeutralFileName.
const (
	FilesystemFileExt         = ".yaml"
	FilesystemNeutralFileName = "neutral"
	FilesystemDirPermissions  = os.FileMode(0o755)
	FilesystemFilePermissions = os.FileMode(0o644)
)

// PostgreSQL defaults
const (
	PostgresTablePrefix            = "smartfmt_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
	postgresDriverName             = "postgres"
)

// Error messages
const (
	ErrMsgResourceNotFound         = "resource not found"
	ErrMsgStoreClosed              = "store is closed"
	ErrMsgInvalidResourceName      = "invalid resource name"
	ErrMsgNilResource              = "resource cannot be nil"
	ErrMsgDriverNotFound           = "store driver not found"
	ErrMsgNilDriver                = "store driver cannot be nil"
	ErrMsgDriverAlreadyRegistered  = "store driver already registered"
	ErrMsgFilesystemRootEmpty      = "filesystem root cannot be empty"
	ErrMsgFilesystemReadFailed     = "failed to read resource file"
	ErrMsgFilesystemWriteFailed    = "failed to write resource file"
	ErrMsgPostgresEmptyConnString  = "connection string cannot be empty"
	ErrMsgPostgresConnectionFailed = "failed to connect to database"
	ErrMsgPostgresQueryFailed      = "database query failed"
	ErrMsgPostgresMigrationFailed  = "database migration failed"
)
