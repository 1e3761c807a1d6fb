package database

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/regcomments/registry-comments/domain"
	"github.com/regcomments/registry-comments/internal/repository/database/model"
)

// maxBatchSize bounds the ids bound into one DELETE so every engine stays
// under its parameter limit.
const maxBatchSize = 500

func (c *commentRepository) MoveComments(ctx context.Context, source, target domain.ResourceID) error {
	tenantID := c.tenants.CurrentTenantID(ctx)

	q := c.conns.Conn(ctx).
		Model(&model.ResourceComment{}).
		Where("reg_path_id = ? AND reg_tenant_id = ?", source.PathID, tenantID)

	var err error
	if source.Collection {
		err = q.Where("reg_resource_name IS NULL").
			Update("reg_path_id", target.PathID).Error
	} else {
		err = q.Where("reg_resource_name = ?", source.Name).
			Updates(map[string]any{
				"reg_path_id":       target.PathID,
				"reg_resource_name": target.ResourceName(),
			}).Error
	}
	if err != nil {
		return c.fail(ctx, "move comments", source.String()+" to "+target.String(), err)
	}
	return nil
}

func (c *commentRepository) MoveCommentPaths(ctx context.Context, source, target domain.ResourceID) error {
	tenantID := c.tenants.CurrentTenantID(ctx)

	err := c.conns.Conn(ctx).
		Model(&model.ResourceComment{}).
		Where("reg_path_id = ? AND reg_tenant_id = ?", source.PathID, tenantID).
		Update("reg_path_id", target.PathID).Error
	if err != nil {
		return c.fail(ctx, "move comment paths", source.String()+" to "+target.String(), err)
	}
	return nil
}

func (c *commentRepository) RemoveComments(ctx context.Context, owner domain.ResourceID) error {
	comments, err := c.GetComments(ctx, owner)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		return nil
	}

	ids := make([]int64, len(comments))
	for i, comment := range comments {
		ids[i] = comment.ID
	}

	tenantID := c.tenants.CurrentTenantID(ctx)
	if err := purge(c.conns.Conn(ctx), ids, tenantID); err != nil {
		return c.fail(ctx, "remove comments on", owner.String(), err)
	}
	return nil
}

func (c *commentRepository) RemoveVersionComments(ctx context.Context, version int64) error {
	tx := c.conns.Conn(ctx)
	tenantID := c.tenants.CurrentTenantID(ctx)
	target := "version " + strconv.FormatInt(version, 10)

	var ids []int64
	err := tx.Model(&model.ResourceComment{}).
		Joins("JOIN reg_comment ON reg_comment.reg_id = reg_resource_comment.reg_comment_id "+
			"AND reg_comment.reg_tenant_id = reg_resource_comment.reg_tenant_id").
		Where("reg_resource_comment.reg_version = ? AND reg_resource_comment.reg_tenant_id = ?", version, tenantID).
		Pluck("reg_comment.reg_id", &ids).Error
	if err != nil {
		return c.fail(ctx, "get comments of", target, err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := purge(tx, ids, tenantID); err != nil {
		return c.fail(ctx, "remove comments of", target, err)
	}
	return nil
}

// purge deletes the link rows of ids, then the comment rows, one statement
// per table and chunk. The first failing statement aborts the whole purge;
// the caller's transaction decides what happens to what already ran.
func purge(tx *gorm.DB, ids []int64, tenantID int64) error {
	chunks := chunkIDs(ids, maxBatchSize)

	for _, chunk := range chunks {
		err := tx.Where("reg_comment_id IN ? AND reg_tenant_id = ?", chunk, tenantID).
			Delete(&model.ResourceComment{}).Error
		if err != nil {
			return err
		}
	}

	for _, chunk := range chunks {
		err := tx.Where("reg_id IN ? AND reg_tenant_id = ?", chunk, tenantID).
			Delete(&model.Comment{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func chunkIDs(ids []int64, size int) [][]int64 {
	chunks := make([][]int64, 0, (len(ids)+size-1)/size)
	for size < len(ids) {
		ids, chunks = ids[size:], append(chunks, ids[:size:size])
	}
	return append(chunks, ids)
}
