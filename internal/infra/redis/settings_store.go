package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"vida-social/internal/service"
	"vida-social/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// SettingsKey 私信全局开关存放的 hash
	SettingsKey = "vida:settings:messaging"

	fieldEnabled   = "enabled"
	fieldMaxLength = "max_length"
)

// SettingsStore 管理员可修改的私信设置，Redis 不可用或未设置时回退到配置文件默认值
type SettingsStore struct {
	client   *redis.Client
	defaults service.StaticSettings
}

var _ service.Settings = (*SettingsStore)(nil)

func NewSettingsStore(client *redis.Client, defaults service.StaticSettings) *SettingsStore {
	return &SettingsStore{client: client, defaults: defaults}
}

// MessagingEnabled 私信功能是否开启
func (s *SettingsStore) MessagingEnabled(ctx context.Context) bool {
	val, err := s.client.HGet(ctx, SettingsKey, fieldEnabled).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Read messaging_enabled from redis failed, using default", zap.Error(err))
		}
		return s.defaults.Enabled
	}
	enabled, err := strconv.ParseBool(val)
	if err != nil {
		logger.Warn("Invalid messaging_enabled value in redis", zap.String("value", val))
		return s.defaults.Enabled
	}
	return enabled
}

// MaxMessageLength 单条消息最大长度
func (s *SettingsStore) MaxMessageLength(ctx context.Context) int {
	val, err := s.client.HGet(ctx, SettingsKey, fieldMaxLength).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Read max_message_length from redis failed, using default", zap.Error(err))
		}
		return s.defaults.MaxLength
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		logger.Warn("Invalid max_message_length value in redis", zap.String("value", val))
		return s.defaults.MaxLength
	}
	return n
}

// Update 写入管理员设置，nil 字段保持不变
func (s *SettingsStore) Update(ctx context.Context, enabled *bool, maxLength *int) error {
	values := make(map[string]interface{}, 2)
	if enabled != nil {
		values[fieldEnabled] = strconv.FormatBool(*enabled)
	}
	if maxLength != nil {
		if *maxLength <= 0 {
			return service.ErrInvalidSetting
		}
		values[fieldMaxLength] = strconv.Itoa(*maxLength)
	}
	if len(values) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, SettingsKey, values).Err(); err != nil {
		return fmt.Errorf("failed to update messaging settings: %w", err)
	}
	logger.Info("Messaging settings updated", zap.Any("values", values))
	return nil
}

// Reset 清除覆盖值，恢复配置文件默认值
func (s *SettingsStore) Reset(ctx context.Context) error {
	return s.client.Del(ctx, SettingsKey).Err()
}
