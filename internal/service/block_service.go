package service

import (
	"context"
	"fmt"

	"vida-social/internal/api/dto"
)

type BlockService struct {
	blockStore BlockStore
	users      UserDirectory
	events     EventPublisher
}

func NewBlockService(blockStore BlockStore, users UserDirectory, events EventPublisher) *BlockService {
	if events == nil {
		events = NopPublisher{}
	}
	return &BlockService{blockStore: blockStore, users: users, events: events}
}

// Block 拉黑用户，重复拉黑视为成功
func (s *BlockService) Block(ctx context.Context, blockerID, blockedID int64) (*dto.BlockResult, error) {
	if blockerID == blockedID {
		return nil, ErrCannotBlockSelf
	}
	if _, err := s.users.GetByID(ctx, blockedID); err != nil {
		return nil, mapUserError(err)
	}

	created, err := s.blockStore.Create(ctx, blockerID, blockedID)
	if err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	if created {
		publish(ctx, s.events, Event{Type: EventUserBlocked, ActorID: blockerID, TargetID: blockedID})
	}

	return &dto.BlockResult{BlockerID: blockerID, BlockedID: blockedID, IsBlocked: true}, nil
}

// Unblock 解除拉黑，未拉黑时同样返回成功
func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID int64) (*dto.BlockResult, error) {
	if blockerID == blockedID {
		return nil, ErrCannotBlockSelf
	}

	deleted, err := s.blockStore.Delete(ctx, blockerID, blockedID)
	if err != nil {
		return nil, fmt.Errorf("delete block: %w", err)
	}
	if deleted {
		publish(ctx, s.events, Event{Type: EventUserUnblocked, ActorID: blockerID, TargetID: blockedID})
	}

	return &dto.BlockResult{BlockerID: blockerID, BlockedID: blockedID, IsBlocked: false}, nil
}

// IsBlocked 单向查询
func (s *BlockService) IsBlocked(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	return s.blockStore.IsBlocked(ctx, blockerID, blockedID)
}

// HasBlockBetween 双向查询，任一方拉黑即为 true
func (s *BlockService) HasBlockBetween(ctx context.Context, a, b int64) (bool, error) {
	return s.blockStore.HasBlockBetween(ctx, a, b)
}

// GetBlockedList 获取我拉黑的用户
func (s *BlockService) GetBlockedList(ctx context.Context, blockerID int64, page, pageSize int) ([]dto.UserBrief, error) {
	ids, err := s.blockStore.GetBlockedIDs(ctx, blockerID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return buildRelationListData(users, ids, 0, page, pageSize).Users, nil
}
