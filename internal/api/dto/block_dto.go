package dto

// BlockResult 拉黑/解除拉黑结果
type BlockResult struct {
	BlockerID int64 `json:"blocker_id"`
	BlockedID int64 `json:"blocked_id"`
	IsBlocked bool  `json:"is_blocked"`
}
