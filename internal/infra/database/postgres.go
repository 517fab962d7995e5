package database

import (
	"fmt"
	"time"

	"vida-social/internal/config"
	"vida-social/internal/model"
	"vida-social/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init 初始化PostgreSQL数据库连接
func Init(cfg *config.DatabaseConfig) error {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// 唯一约束冲突翻译为 gorm.ErrDuplicatedKey，会话去重依赖这一点
		TranslateError: true,
		Logger:         NewGormLogger(time.Duration(cfg.SlowThreshold) * time.Millisecond),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return nil
}

// Models 返回本服务拥有的表；users 由外部用户目录维护，不在其中
func Models() []interface{} {
	return []interface{}{
		&model.Follow{},
		&model.Block{},
		&model.Conversation{},
		&model.Message{},
	}
}

// DirectoryModels 外部用户目录的表，只在本地开发和测试时建表
func DirectoryModels() []interface{} {
	return []interface{}{
		&model.User{},
	}
}

// AutoMigrate 自动迁移数据库表结构，withDirectory 为 true 时一并创建 users 表
func AutoMigrate(db *gorm.DB, withDirectory bool) error {
	models := Models()
	if withDirectory {
		models = append(DirectoryModels(), models...)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	logger.Info("Database auto migration completed", zap.Bool("with_directory", withDirectory))
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	logger.Info("Database connection closed")
	return sqlDB.Close()
}

// Get 获取数据库实例
func Get() *gorm.DB {
	return DB
}
