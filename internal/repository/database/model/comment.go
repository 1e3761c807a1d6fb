package model

import (
	"time"

	"github.com/regcomments/registry-comments/domain"
)

// Comment is a row of reg_comment.
type Comment struct {
	ID          int64     `gorm:"column:reg_id;primaryKey;autoIncrement"`
	Text        string    `gorm:"column:reg_comment_text;type:varchar(500);not null"`
	UserID      string    `gorm:"column:reg_user_id;type:varchar(31);not null"`
	CommentedAt time.Time `gorm:"column:reg_commented_time;not null"`
	TenantID    int64     `gorm:"column:reg_tenant_id;not null;index"`
}

func (Comment) TableName() string {
	return "reg_comment"
}

func NewComment(text, userID string, tenantID int64, now time.Time) *Comment {
	return &Comment{
		Text:        text,
		UserID:      userID,
		CommentedAt: now,
		TenantID:    tenantID,
	}
}

// ToDomain rebuilds the virtual paths from ownerPath.
func (m *Comment) ToDomain(ownerPath string) domain.Comment {
	path, parent := domain.CommentPaths(ownerPath, m.ID)
	return domain.Comment{
		ID:           m.ID,
		Text:         m.Text,
		User:         m.UserID,
		CreatedAt:    m.CommentedAt,
		ResourcePath: ownerPath,
		Path:         path,
		ParentPath:   parent,
	}
}
