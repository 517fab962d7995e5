package model

// User 用户模型，由外部用户目录维护，本子系统只读
// 生产环境不迁移该表，只有 debug 模式和测试会建表
type User struct {
	ID         int64  `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName   string `gorm:"size:255;not null;uniqueIndex;comment:用户名" json:"user_name"`
	UserRole   string `gorm:"size:256;not null;default:'user';comment:用户角色" json:"user_role"`
	IsDisabled bool   `gorm:"not null;default:false;comment:是否被禁用" json:"is_disabled"`
	IsPending  bool   `gorm:"not null;default:false;comment:是否待审核" json:"is_pending"`
	IsDelete   int64  `gorm:"not null;default:0;comment:删除标识" json:"-"`
}

func (User) TableName() string {
	return "users"
}
