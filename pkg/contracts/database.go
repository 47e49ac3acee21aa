package contracts

import (
	"context"
	"database/sql"
)

// Database wraps one configured SQL connection. Instances are registered as
// container definitions under the database type tag, one per configured
// connection, so components pick them by qualifier or primary flag.
type Database interface {
	Connect() error
	Close() error
	Ping(ctx context.Context) error
	DB() *sql.DB
}

const DatabaseTypeTag = "database.Conn"
