package models

import "time"

// User represents an account record. Email is the identity key and is
// stored normalized (trimmed, lower-cased).
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;check:chk_users_role,role IN ('owner','admin','manager','user')" json:"role"`
	DisplayName  string    `gorm:"size:64" json:"display_name"`
	// 不带 default 标签：gorm 会在 INSERT 时省略带默认值的零值字段，
	// IsActive=false 会被悄悄写成 true。由创建方显式赋值。
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"` // 连续登录失败次数
	LockedUntil         *time.Time `gorm:"index" json:"-"`     // 账户锁定到期时间
	LastLoginAt         *time.Time `json:"-"`                  // 最近登录时间
	LastLoginIP         string     `gorm:"size:64" json:"-"`   // 最近登录 IP
}

// SafeUser 对外返回的安全字段子集，绝不包含密码哈希
type SafeUser struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Safe returns the subset of u that may be echoed to clients.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}
