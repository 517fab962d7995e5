package model

import "time"

// Follow 用户关注关系（FollowerID 关注 FollowedID）
type Follow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:关注关系id" json:"id"`
	FollowerID int64     `gorm:"not null;uniqueIndex:idx_unique_follow,priority:1;index:idx_follow_follower;check:chk_follow_not_self,follower_id <> followed_id;comment:粉丝用户id" json:"follower_id"`
	FollowedID int64     `gorm:"not null;uniqueIndex:idx_unique_follow,priority:2;index:idx_follow_followed;comment:被关注的用户id" json:"followed_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:关注时间" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
