package dbutil

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Product names as reported by gorm.Dialector.Name().
const (
	MySQL     = "mysql"
	Postgres  = "postgres"
	SQLite    = "sqlite"
	SQLServer = "sqlserver"
	Oracle    = "oracle"
	DB2       = "db2"
)

// SupportsGeneratedKeys reports whether an insert on product can hand back
// the generated primary key in the same statement round trip.
func SupportsGeneratedKeys(product string) bool {
	switch strings.ToLower(product) {
	case MySQL, Postgres, SQLite, SQLServer:
		return true
	default:
		return false
	}
}

// GeneratedKeyColumnName converts a logical column name to the spelling
// product expects when reading generated keys.
func GeneratedKeyColumnName(product, column string) string {
	switch strings.ToLower(product) {
	case Postgres:
		return strings.ToLower(column)
	case Oracle, DB2:
		return strings.ToUpper(column)
	default:
		return column
	}
}

// IsConstraintError reports whether err is a unique, foreign key or check
// constraint violation on any of the supported drivers.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062, 1451, 1452:
			return true
		}
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
