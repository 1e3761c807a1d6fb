package database

import (
	"database/sql"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/regcomments/registry-comments/domain"
	"github.com/regcomments/registry-comments/internal/dbutil"
	"github.com/regcomments/registry-comments/internal/repository/database/model"
)

// Allocation modes accepted by NewIDAllocator.
const (
	AllocationAuto     = "auto"
	AllocationDirect   = "direct"
	AllocationFallback = "fallback"
)

const (
	insertCommentSQL = "INSERT INTO reg_comment (reg_comment_text, reg_user_id, reg_commented_time, reg_tenant_id) VALUES (?, ?, ?, ?)"
	idColumn         = "reg_id"
)

// addCommentLock serializes the insert and max id read of the fallback mode.
// It only protects writers inside this process: two nodes sharing a database
// can still read each other's ids.
var addCommentLock sync.Mutex

// IDAllocator inserts a reg_comment row and reports the id it was given.
type IDAllocator interface {
	Insert(tx *gorm.DB, row *model.Comment) (int64, error)
	Mode() string
}

// NewIDAllocator picks the allocation mode for product. AllocationAuto asks
// the capability probe.
func NewIDAllocator(product, mode string) (IDAllocator, error) {
	switch mode {
	case AllocationAuto, "":
		if dbutil.SupportsGeneratedKeys(product) {
			return directAllocator{}, nil
		}
		return newFallbackAllocator(product), nil
	case AllocationDirect:
		return directAllocator{}, nil
	case AllocationFallback:
		return newFallbackAllocator(product), nil
	default:
		return nil, fmt.Errorf("unknown id allocation mode %q", mode)
	}
}

// directAllocator lets the driver return the generated key
// (RETURNING or LastInsertId, depending on the dialect).
type directAllocator struct{}

func (directAllocator) Mode() string { return AllocationDirect }

func (directAllocator) Insert(tx *gorm.DB, row *model.Comment) (int64, error) {
	if err := tx.Create(row).Error; err != nil {
		return domain.NoCommentID, err
	}
	if row.ID == domain.NoCommentID {
		return domain.NoCommentID, domain.ErrNoGeneratedID
	}
	return row.ID, nil
}

type fallbackAllocator struct {
	maxIDSQL string
}

func newFallbackAllocator(product string) fallbackAllocator {
	column := dbutil.GeneratedKeyColumnName(product, idColumn)
	return fallbackAllocator{
		maxIDSQL: "SELECT MAX(" + column + ") FROM reg_comment",
	}
}

func (fallbackAllocator) Mode() string { return AllocationFallback }

func (a fallbackAllocator) Insert(tx *gorm.DB, row *model.Comment) (int64, error) {
	addCommentLock.Lock()
	defer addCommentLock.Unlock()

	err := tx.Exec(insertCommentSQL, row.Text, row.UserID, row.CommentedAt, row.TenantID).Error
	if err != nil {
		return domain.NoCommentID, err
	}

	var id sql.NullInt64
	if err := tx.Raw(a.maxIDSQL).Row().Scan(&id); err != nil {
		return domain.NoCommentID, err
	}
	if !id.Valid {
		return domain.NoCommentID, domain.ErrNoGeneratedID
	}

	row.ID = id.Int64
	return row.ID, nil
}
