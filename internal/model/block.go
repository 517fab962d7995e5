package model

import "time"

// Block 用户拉黑关系（BlockerID 拉黑 BlockedID）
type Block struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:拉黑关系id" json:"id"`
	BlockerID int64     `gorm:"not null;uniqueIndex:idx_unique_block,priority:1;index:idx_block_blocker;check:chk_block_not_self,blocker_id <> blocked_id;comment:发起拉黑的用户id" json:"blocker_id"`
	BlockedID int64     `gorm:"not null;uniqueIndex:idx_unique_block,priority:2;index:idx_block_blocked;comment:被拉黑的用户id" json:"blocked_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:拉黑时间" json:"created_at"`
}

func (Block) TableName() string {
	return "blocks"
}
