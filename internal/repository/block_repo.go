package repository

import (
	"context"

	"vida-social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create 创建拉黑关系，重复拉黑不报错；返回是否新插入
func (r *BlockRepository) Create(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	block := &model.Block{BlockerID: blockerID, BlockedID: blockedID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(block)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 解除拉黑，返回是否确实删除了记录
func (r *BlockRepository) Delete(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsBlocked 检查 blocker 是否拉黑了 blocked（单向）
func (r *BlockRepository) IsBlocked(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

// HasBlockBetween 任一方向存在拉黑即返回 true
func (r *BlockRepository) HasBlockBetween(ctx context.Context, a, b int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// GetBlockedIDs 获取用户拉黑的人（分页）
func (r *BlockRepository) GetBlockedIDs(ctx context.Context, blockerID int64, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Pluck("blocked_id", &ids).Error
	return ids, err
}
