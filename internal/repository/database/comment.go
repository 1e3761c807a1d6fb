package database

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/regcomments/registry-comments/domain"
	"github.com/regcomments/registry-comments/internal/dbutil"
	"github.com/regcomments/registry-comments/internal/repository"
	"github.com/regcomments/registry-comments/internal/repository/database/model"
)

const commentColumns = "reg_comment.reg_id, reg_comment.reg_comment_text, reg_comment.reg_user_id, " +
	"reg_comment.reg_commented_time, reg_comment.reg_tenant_id"

type commentRepository struct {
	conns     repository.ConnProvider
	tenants   domain.TenantProvider
	locator   domain.ResourceLocator
	allocator IDAllocator
	now       func() time.Time
}

var _ domain.CommentRepository = (*commentRepository)(nil)

// NewCommentRepository creates the comment store. Statements run on the
// connection conns hands out for the request context and never commit or
// roll back by themselves.
func NewCommentRepository(conns repository.ConnProvider, tenants domain.TenantProvider, locator domain.ResourceLocator, allocator IDAllocator) *commentRepository {
	return &commentRepository{
		conns:     conns,
		tenants:   tenants,
		locator:   locator,
		allocator: allocator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (c *commentRepository) CreateComment(ctx context.Context, owner domain.ResourceID, userID, text string) (int64, error) {
	tx := c.conns.Conn(ctx)
	tenantID := c.tenants.CurrentTenantID(ctx)

	id, err := c.insert(tx, owner, tenantID, domain.NewComment{Text: text, User: userID})
	if err != nil {
		return domain.NoCommentID, c.fail(ctx, "add comment to", owner.String(), err)
	}
	return id, nil
}

func (c *commentRepository) CreateComments(ctx context.Context, owner domain.ResourceID, comments []domain.NewComment) error {
	tx := c.conns.Conn(ctx)
	tenantID := c.tenants.CurrentTenantID(ctx)

	// every link row needs the id of its own comment, so no multi-row insert
	for _, comment := range comments {
		if _, err := c.insert(tx, owner, tenantID, comment); err != nil {
			return c.fail(ctx, "add comments to", owner.String(), err)
		}
	}
	return nil
}

// insert writes the comment row and, once its id is known, the link row.
func (c *commentRepository) insert(tx *gorm.DB, owner domain.ResourceID, tenantID int64, comment domain.NewComment) (int64, error) {
	row := model.NewComment(comment.Text, comment.User, tenantID, c.now())
	id, err := c.allocator.Insert(tx, row)
	if err != nil {
		return domain.NoCommentID, err
	}

	if err := tx.Create(model.NewResourceComment(id, owner, tenantID)).Error; err != nil {
		return domain.NoCommentID, err
	}
	return id, nil
}

func (c *commentRepository) CopyComments(ctx context.Context, source, target *domain.ResourceID) error {
	if source == nil || target == nil || source.SameOwner(*target) {
		return nil
	}

	comments, err := c.GetComments(ctx, *source)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		return nil
	}

	copies := make([]domain.NewComment, len(comments))
	for i, comment := range comments {
		copies[i] = domain.NewComment{Text: comment.Text, User: comment.User}
	}
	return c.CreateComments(ctx, *target, copies)
}

func (c *commentRepository) UpdateComment(ctx context.Context, id int64, text string) error {
	tenantID := c.tenants.CurrentTenantID(ctx)
	err := c.conns.Conn(ctx).
		Model(&model.Comment{}).
		Where("reg_id = ? AND reg_tenant_id = ?", id, tenantID).
		Updates(map[string]any{
			"reg_comment_text":   text,
			"reg_commented_time": c.now(),
		}).Error
	if err != nil {
		return c.fail(ctx, "update comment", commentTarget(id), err)
	}
	return nil
}

// DeleteComment removes the links before the comment so a failure between
// the two statements never leaves a link pointing at nothing.
func (c *commentRepository) DeleteComment(ctx context.Context, id int64) error {
	tx := c.conns.Conn(ctx)
	tenantID := c.tenants.CurrentTenantID(ctx)

	err := tx.Where("reg_comment_id = ? AND reg_tenant_id = ?", id, tenantID).
		Delete(&model.ResourceComment{}).Error
	if err != nil {
		return c.fail(ctx, "delete comment", commentTarget(id), err)
	}

	err = tx.Where("reg_id = ? AND reg_tenant_id = ?", id, tenantID).
		Delete(&model.Comment{}).Error
	if err != nil {
		return c.fail(ctx, "delete comment", commentTarget(id), err)
	}
	return nil
}

func (c *commentRepository) GetComment(ctx context.Context, id int64, ownerPath string) (*domain.Comment, error) {
	tenantID := c.tenants.CurrentTenantID(ctx)

	var row model.Comment
	err := c.conns.Conn(ctx).First(&row, "reg_id = ? AND reg_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, c.fail(ctx, "get comment", commentTarget(id), err)
	}

	comment := row.ToDomain(ownerPath)
	return &comment, nil
}

func (c *commentRepository) GetComments(ctx context.Context, owner domain.ResourceID) ([]domain.Comment, error) {
	tenantID := c.tenants.CurrentTenantID(ctx)

	q := c.conns.Conn(ctx).
		Model(&model.Comment{}).
		Select(commentColumns).
		Joins("JOIN reg_resource_comment ON reg_resource_comment.reg_comment_id = reg_comment.reg_id").
		Where("reg_resource_comment.reg_path_id = ?", owner.PathID)
	if owner.Collection {
		q = q.Where("reg_resource_comment.reg_resource_name IS NULL")
	} else {
		q = q.Where("reg_resource_comment.reg_resource_name = ?", owner.Name)
	}

	var rows []model.Comment
	err := q.Where("reg_comment.reg_tenant_id = ? AND reg_resource_comment.reg_tenant_id = ?", tenantID, tenantID).
		Find(&rows).Error
	if err != nil {
		return nil, c.fail(ctx, "get comments on", owner.String(), err)
	}

	res := make([]domain.Comment, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain(owner.Path)
	}
	return res, nil
}

func (c *commentRepository) GetResourcePathsOfComments(ctx context.Context, ids []int64) ([]*string, error) {
	if len(ids) == 0 {
		return []*string{}, nil
	}
	tenantID := c.tenants.CurrentTenantID(ctx)

	// gorm expands "IN ?" to one bound placeholder per id
	var links []model.ResourceComment
	err := c.conns.Conn(ctx).
		Model(&model.ResourceComment{}).
		Distinct("reg_comment_id", "reg_path_id", "reg_resource_name", "reg_version").
		Where("reg_comment_id IN ? AND reg_tenant_id = ?", ids, tenantID).
		Find(&links).Error
	if err != nil {
		return nil, c.fail(ctx, "get the resources of comments", "", err)
	}

	commentPaths := make(map[int64]string, len(links))
	for i := range links {
		link := links[i].ToDomain()
		var name string
		if link.ResourceName != nil {
			name = *link.ResourceName
		}
		var version int64
		if link.Version != nil {
			version = *link.Version
		}

		ownerPath, ok, err := c.locator.ResolvePath(ctx, link.PathID, name, version, true)
		if err != nil {
			return nil, c.fail(ctx, "get the resources of comments", commentTarget(link.CommentID), err)
		}
		if !ok {
			continue
		}
		commentPaths[link.CommentID], _ = domain.CommentPaths(ownerPath, link.CommentID)
	}

	res := make([]*string, len(ids))
	for i, id := range ids {
		if path, ok := commentPaths[id]; ok {
			res[i] = &path
		}
	}
	return res, nil
}

func (c *commentRepository) fail(ctx context.Context, op, target string, err error) error {
	logrus.WithFields(logrus.Fields{
		"op":         op,
		"target":     target,
		"tenant":     c.tenants.CurrentTenantID(ctx),
		"constraint": dbutil.IsConstraintError(err),
	}).WithError(err).Error("comment operation failed")
	return domain.NewStorageError(op, target, err)
}

func commentTarget(id int64) string {
	return "comment " + strconv.FormatInt(id, 10)
}
