package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/regcomments/registry-comments/internal/repository"
)

type note struct {
	ID   int64 `gorm:"primaryKey"`
	Text string
}

func newNotesDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func countNotes(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&note{}).Count(&n).Error)
	return n
}

func TestWithinTransactionCommits(t *testing.T) {
	db := newNotesDB(t)
	conns := repository.NewConnProvider(db)
	tx := repository.NewTransactor(db)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		_, ok := repository.TxFromContext(ctx)
		assert.True(t, ok)
		return conns.Conn(ctx).Create(&note{Text: "kept"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), countNotes(t, db))
}

func TestWithinTransactionRollsBack(t *testing.T) {
	db := newNotesDB(t)
	conns := repository.NewConnProvider(db)
	tx := repository.NewTransactor(db)
	failure := errors.New("second statement failed")

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := conns.Conn(ctx).Create(&note{Text: "discarded"}).Error; err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.Zero(t, countNotes(t, db))
}

func TestWithinTransactionReusesOuter(t *testing.T) {
	db := newNotesDB(t)
	conns := repository.NewConnProvider(db)
	tx := repository.NewTransactor(db)
	failure := errors.New("outer failed")

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		outer, _ := repository.TxFromContext(ctx)
		err := tx.WithinTransaction(ctx, func(inner context.Context) error {
			got, ok := repository.TxFromContext(inner)
			require.True(t, ok)
			assert.Same(t, outer, got)
			return conns.Conn(inner).Create(&note{Text: "inner"}).Error
		})
		require.NoError(t, err)
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.Zero(t, countNotes(t, db))
}

func TestTxFromContextEmpty(t *testing.T) {
	_, ok := repository.TxFromContext(context.Background())
	assert.False(t, ok)

	_, ok = repository.TxFromContext(repository.WithTx(context.Background(), nil))
	assert.False(t, ok)
}
