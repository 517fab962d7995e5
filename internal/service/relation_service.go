package service

import (
	"context"
	"fmt"

	"vida-social/internal/api/dto"
	"vida-social/internal/model"
	"vida-social/internal/repository"
)

type RelationService struct {
	followStore FollowStore
	users       UserDirectory
	events      EventPublisher
}

func NewRelationService(followStore FollowStore, users UserDirectory, events EventPublisher) *RelationService {
	if events == nil {
		events = NopPublisher{}
	}
	return &RelationService{
		followStore: followStore,
		users:       users,
		events:      events,
	}
}

// Follow 关注用户，重复关注视为成功
func (s *RelationService) Follow(ctx context.Context, currentUserID, targetUserID int64) (*dto.FollowResult, error) {
	if currentUserID == targetUserID {
		return nil, ErrCannotFollowSelf
	}

	if err := s.requireActiveUser(ctx, targetUserID); err != nil {
		return nil, err
	}

	created, err := s.followStore.Create(ctx, currentUserID, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("create follow: %w", err)
	}
	if created {
		publish(ctx, s.events, Event{Type: EventUserFollowed, ActorID: currentUserID, TargetID: targetUserID})
	}

	return s.buildFollowResult(ctx, currentUserID, targetUserID, true)
}

// Unfollow 取消关注，未关注时同样返回成功
func (s *RelationService) Unfollow(ctx context.Context, currentUserID, targetUserID int64) (*dto.FollowResult, error) {
	if currentUserID == targetUserID {
		return nil, ErrCannotFollowSelf
	}

	deleted, err := s.followStore.Delete(ctx, currentUserID, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("delete follow: %w", err)
	}
	if deleted {
		publish(ctx, s.events, Event{Type: EventUserUnfollowed, ActorID: currentUserID, TargetID: targetUserID})
	}

	return s.buildFollowResult(ctx, currentUserID, targetUserID, false)
}

// IsFollowing 查询 a 是否关注了 b
func (s *RelationService) IsFollowing(ctx context.Context, a, b int64) (bool, error) {
	return s.followStore.Exists(ctx, a, b)
}

// AreMutualFollows 查询是否互相关注
func (s *RelationService) AreMutualFollows(ctx context.Context, a, b int64) (bool, error) {
	return s.followStore.AreMutual(ctx, a, b)
}

// GetFollowingList 获取关注列表
func (s *RelationService) GetFollowingList(ctx context.Context, userID int64, page, pageSize int) (*dto.RelationListData, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapUserError(err)
	}

	skip := (page - 1) * pageSize
	ids, err := s.followStore.GetFollowingIDs(ctx, userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	total, err := s.followStore.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return buildRelationListData(users, ids, total, page, pageSize), nil
}

// GetFollowerList 获取粉丝列表
func (s *RelationService) GetFollowerList(ctx context.Context, userID int64, page, pageSize int) (*dto.RelationListData, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapUserError(err)
	}

	skip := (page - 1) * pageSize
	ids, err := s.followStore.GetFollowerIDs(ctx, userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	total, err := s.followStore.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return buildRelationListData(users, ids, total, page, pageSize), nil
}

// GetCounts 获取关注数和粉丝数
func (s *RelationService) GetCounts(ctx context.Context, userID int64) (*dto.RelationCounts, error) {
	following, err := s.followStore.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.followStore.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.RelationCounts{UserID: userID, FollowCount: following, FollowerCount: followers}, nil
}

// requireActiveUser 目标用户不存在、被禁用或待审核时统一视为不存在
func (s *RelationService) requireActiveUser(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return mapUserError(err)
	}
	if user.IsDisabled || user.IsPending {
		return ErrUserNotFound
	}
	return nil
}

func (s *RelationService) buildFollowResult(ctx context.Context, followerID, followedID int64, following bool) (*dto.FollowResult, error) {
	followCount, err := s.followStore.CountFollowing(ctx, followerID)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.followStore.CountFollowers(ctx, followedID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowResult{
		FollowerID:    followerID,
		FollowedID:    followedID,
		IsFollowing:   following,
		FollowCount:   followCount,
		FollowerCount: followerCount,
	}, nil
}

// mapUserError 记录不存在映射为 ErrUserNotFound，其它错误原样返回
func mapUserError(err error) error {
	if repository.IsNotFound(err) {
		return ErrUserNotFound
	}
	return fmt.Errorf("load user: %w", err)
}

// buildRelationListData 构建关注/粉丝列表响应，按 orderedIDs 排序
func buildRelationListData(users []model.User, orderedIDs []int64, total int64, page, pageSize int) *dto.RelationListData {
	userMap := make(map[int64]dto.UserBrief, len(users))
	for i := range users {
		userMap[users[i].ID] = dto.UserBrief{
			ID:       users[i].ID,
			Username: users[i].UserName,
		}
	}

	userList := make([]dto.UserBrief, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if info, ok := userMap[id]; ok {
			userList = append(userList, info)
		}
	}

	var totalPages int64
	if pageSize > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}

	return &dto.RelationListData{
		Users:      userList,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
