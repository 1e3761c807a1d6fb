package model

import "github.com/regcomments/registry-comments/domain"

// ResourceComment is a row of reg_resource_comment, the link between a
// comment and its owner. A NULL resource name marks a collection owner.
type ResourceComment struct {
	CommentID    int64   `gorm:"column:reg_comment_id;not null;index"`
	PathID       int64   `gorm:"column:reg_path_id;not null;index"`
	ResourceName *string `gorm:"column:reg_resource_name;type:varchar(256)"`
	TenantID     int64   `gorm:"column:reg_tenant_id;not null"`
	Version      *int64  `gorm:"column:reg_version;index"`
}

func (ResourceComment) TableName() string {
	return "reg_resource_comment"
}

func NewResourceComment(commentID int64, owner domain.ResourceID, tenantID int64) *ResourceComment {
	link := &ResourceComment{
		CommentID:    commentID,
		PathID:       owner.PathID,
		ResourceName: owner.ResourceName(),
		TenantID:     tenantID,
	}
	if owner.Version != 0 {
		version := owner.Version
		link.Version = &version
	}
	return link
}

func (m *ResourceComment) ToDomain() domain.CommentLink {
	return domain.CommentLink{
		CommentID:    m.CommentID,
		PathID:       m.PathID,
		ResourceName: m.ResourceName,
		TenantID:     m.TenantID,
		Version:      m.Version,
	}
}
