package dbutil

import (
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultMaxRetry      = 10
	defaultRetryInterval = 2 * time.Second
	defaultSQLiteDSN     = "file::memory:?cache=shared"
)

// Config describes how to reach the registry database.
type Config struct {
	Driver string
	Host   string
	Port   string
	User   string
	Pass   string
	Name   string
	// DSN overrides the connection string built from the fields above.
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	MaxRetry      int
	RetryInterval time.Duration
}

// Dialector builds the gorm dialector for cfg.Driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case MySQL, "":
		dsn := cfg.DSN
		if dsn == "" {
			connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
			val := url.Values{}
			val.Add("parseTime", "1")
			val.Add("loc", "UTC")
			dsn = fmt.Sprintf("%s?%s", connection, val.Encode())
		}
		return mysql.Open(dsn), nil
	case Postgres:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.Name)
		}
		return postgres.Open(dsn), nil
	case SQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects to the database, retrying until it answers a ping.
func Open(cfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	maxRetry := cfg.MaxRetry
	if maxRetry <= 0 {
		maxRetry = defaultMaxRetry
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	gormCfg := &gorm.Config{
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var db *gorm.DB
	for i := range maxRetry {
		db, err = gorm.Open(dialector, gormCfg)
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, maxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, maxRetry, err)
				continue
			}
			if err = sqlDB.Ping(); err == nil {
				configurePool(sqlDB, cfg)
				return db, nil
			}
			logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, maxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(interval)
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetry, err)
}

type poolSetter interface {
	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
	SetConnMaxLifetime(d time.Duration)
}

func configurePool(db poolSetter, cfg Config) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
