package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/regcomments/registry-comments/domain"
	"github.com/regcomments/registry-comments/internal/repository"
	"github.com/regcomments/registry-comments/internal/repository/database/model"
)

const rootPath = "/"

type pathRepository struct {
	conns   repository.ConnProvider
	tenants domain.TenantProvider
}

var _ domain.PathRepository = (*pathRepository)(nil)

// NewPathRepository creates the reg_path table access.
func NewPathRepository(conns repository.ConnProvider, tenants domain.TenantProvider) *pathRepository {
	return &pathRepository{conns: conns, tenants: tenants}
}

func (p *pathRepository) GetPath(ctx context.Context, pathID int64) (string, error) {
	var row model.Path
	err := p.conns.Conn(ctx).
		First(&row, "reg_path_id = ? AND reg_tenant_id = ?", pathID, p.tenants.CurrentTenantID(ctx)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (p *pathRepository) GetPathID(ctx context.Context, path string) (int64, error) {
	var row model.Path
	err := p.conns.Conn(ctx).
		First(&row, "reg_path_value = ? AND reg_tenant_id = ?", normalizePath(path), p.tenants.CurrentTenantID(ctx)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// CreatePath walks from the root down and creates the missing segments.
func (p *pathRepository) CreatePath(ctx context.Context, path string) (int64, error) {
	path = normalizePath(path)
	if id, err := p.GetPathID(ctx, path); err == nil {
		return id, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}

	var parentID *int64
	if path != rootPath {
		id, err := p.CreatePath(ctx, parentOf(path))
		if err != nil {
			return 0, err
		}
		parentID = &id
	}

	row := model.Path{
		Value:    path,
		ParentID: parentID,
		TenantID: p.tenants.CurrentTenantID(ctx),
	}
	if err := p.conns.Conn(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func normalizePath(path string) string {
	if path == "" || path == rootPath {
		return rootPath
	}
	if !strings.HasPrefix(path, rootPath) {
		path = rootPath + path
	}
	return strings.TrimSuffix(path, rootPath)
}

func parentOf(path string) string {
	i := strings.LastIndex(path, rootPath)
	if i <= 0 {
		return rootPath
	}
	return path[:i]
}
