package util

import (
	"fmt"
	"strings"
)

// NormalizeEmail 规范化身份标识：去首尾空白并转小写。
// 存储和查询都使用规范化后的值，保证唯一索引按规范化形式生效。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail 验证邮箱形式（非空、含 @、长度合理）。
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if len(email) > 255 {
		return fmt.Errorf("email too long, max 255 characters")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword 验证密码长度（最小长度由配置决定，minLen <= 0 时按 6 处理）。
func ValidatePassword(password string, minLen int) error {
	if minLen <= 0 {
		minLen = 6
	}
	if len(password) < minLen {
		return fmt.Errorf("password too short, min %d characters", minLen)
	}
	if len(password) > 64 {
		return fmt.Errorf("password too long, max 64 characters")
	}
	return nil
}
