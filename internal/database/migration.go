package database

import (
	"fmt"

	"xcontract-core/internal/config"
	"xcontract-core/internal/models"
	"xcontract-core/internal/util"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// EnsureOwner seeds a single owner account when the users table is empty.
// 首次启动创建初始 owner，之后再跑是幂等的空操作。
// 初始密码必须在任何真实部署中立即修改。
func EnsureOwner(db *gorm.DB, cfg config.BootstrapConfig) (*models.User, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil, nil
	}

	hash, err := util.HashPassword(cfg.Password, 0)
	if err != nil {
		return nil, fmt.Errorf("hash bootstrap password: %w", err)
	}

	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = cfg.Email
	}

	owner := models.User{
		Email:        util.NormalizeEmail(cfg.Email),
		PasswordHash: hash,
		Role:         models.RoleOwner,
		DisplayName:  displayName,
		IsActive:     true,
	}
	if err := db.Create(&owner).Error; err != nil {
		return nil, fmt.Errorf("create owner: %w", err)
	}
	return &owner, nil
}
