// Package testutil 提供测试用的内存数据库
package testutil

import (
	"context"
	"testing"

	"vida-social/internal/infra/database"
	"vida-social/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB 创建已迁移的内存 SQLite 数据库，单连接保证同一测试内数据共享
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db, true))
	return db
}

// SeedUsers 创建普通用户，返回按顺序分配的 ID
func SeedUsers(t *testing.T, db *gorm.DB, names ...string) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		u := &model.User{UserName: name}
		require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
		ids = append(ids, u.ID)
	}
	return ids
}
