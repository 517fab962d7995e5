package dto

// UserBrief 用户简要信息
type UserBrief struct {
	ID       int64  `json:"id"`
	Username string `json:"user_name"`
}

// FollowResult 关注/取关操作结果
type FollowResult struct {
	FollowerID    int64 `json:"follower_id"`
	FollowedID    int64 `json:"followed_id"`
	IsFollowing   bool  `json:"is_following"`
	FollowCount   int64 `json:"follow_count"`
	FollowerCount int64 `json:"follower_count"`
}

// RelationListData 关注/粉丝列表数据
type RelationListData struct {
	Users      []UserBrief `json:"users"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}

// RelationCounts 关注数与粉丝数
type RelationCounts struct {
	UserID        int64 `json:"user_id"`
	FollowCount   int64 `json:"follow_count"`
	FollowerCount int64 `json:"follower_count"`
}
