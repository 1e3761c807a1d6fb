package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx binds tx to ctx so repositories called with ctx run inside it.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction bound to ctx, if any.
func TxFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

// ConnProvider hands out the connection of the current unit of work.
type ConnProvider interface {
	Conn(ctx context.Context) *gorm.DB
}

type connProvider struct {
	db *gorm.DB
}

// NewConnProvider returns a provider that prefers the transaction bound to
// the context and falls back to db.
func NewConnProvider(db *gorm.DB) ConnProvider {
	return &connProvider{db: db}
}

func (p *connProvider) Conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return p.db.WithContext(ctx)
}

// Transactor runs a function inside one database transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor on db.
func NewTransactor(db *gorm.DB) Transactor {
	return &transactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// A transaction already bound to ctx is reused.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}
