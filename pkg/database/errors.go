package database

import "github.com/shuldan/chassis/pkg/errors"

var newDatabaseCode = errors.WithPrefix("DATABASE")

var (
	ErrFailedToOpenDatabase = newDatabaseCode().New("failed to open database")
	ErrDatabaseNotConnected = newDatabaseCode().New("database not connected")
	ErrConnectionsNotFound  = newDatabaseCode().New("no database connections configured")
	ErrDriverNotSpecified   = newDatabaseCode().New("connection {{.name}} has no driver")
	ErrDSNNotSpecified      = newDatabaseCode().New("connection {{.name}} has no dsn")
)
