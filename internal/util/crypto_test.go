package util

import (
	"strings"
	"testing"
)

// ============ 密码哈希测试 ============

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	// 测试正常哈希
	hashed, err := HashPassword(password, 0)
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Error("哈希格式错误，应为 bcrypt 格式")
	}

	// 测试空密码
	_, err = HashPassword("", 0)
	if err == nil {
		t.Error("空密码应返回错误")
	}

	// 测试相同密码生成不同哈希
	hashed2, _ := HashPassword(password, 0)
	if hashed == hashed2 {
		t.Error("相同密码应生成不同哈希（随机salt）")
	}
}

func TestHashPassword_CustomCost(t *testing.T) {
	// cost 过低时 bcrypt 自身会拒绝，这里用合法最小 cost
	hashed, err := HashPassword("TestPass456", 4)
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	if !CheckPassword("TestPass456", hashed) {
		t.Error("自定义 cost 的哈希应能通过验证")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPassword(password, 4)

	// 测试正确密码
	if !CheckPassword(password, hashed) {
		t.Error("正确密码验证失败")
	}

	// 测试错误密码
	if CheckPassword("WrongPass", hashed) {
		t.Error("错误密码不应通过验证")
	}

	// 测试空输入
	if CheckPassword("", hashed) {
		t.Error("空密码不应通过验证")
	}
	if CheckPassword(password, "") {
		t.Error("空哈希不应通过验证")
	}

	// 测试无效格式：返回 false 而不是 panic
	if CheckPassword(password, "invalid-format") {
		t.Error("无效格式不应通过验证")
	}
}

// ============ 随机字符串测试 ============

func TestRandomString(t *testing.T) {
	// 测试正常生成
	str, err := RandomString(32)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if len(str) != 32 {
		t.Errorf("长度错误: 期望32，实际%d", len(str))
	}

	// 测试唯一性
	str2, _ := RandomString(32)
	if str == str2 {
		t.Error("应生成不同的随机字符串")
	}

	// 测试无效长度
	_, err = RandomString(0)
	if err == nil {
		t.Error("长度0应返回错误")
	}
	_, err = RandomString(-5)
	if err == nil {
		t.Error("负数长度应返回错误")
	}
}
