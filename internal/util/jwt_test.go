package util

import (
	"testing"
	"time"

	"xcontract-core/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func testUser() *models.User {
	return &models.User{
		ID:          42,
		Email:       "a@b.com",
		Role:        models.RoleAdmin,
		DisplayName: "Tester",
	}
}

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	user := testUser()

	tok, err := GenerateToken(secret, user, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID mismatch: got %d want %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email mismatch: got %q want %q", claims.Email, user.Email)
	}
	if claims.Role != user.Role {
		t.Errorf("Role mismatch: got %q want %q", claims.Role, user.Role)
	}
	if claims.DisplayName != user.DisplayName {
		t.Errorf("DisplayName mismatch: got %q want %q", claims.DisplayName, user.DisplayName)
	}
	if claims.ID == "" {
		t.Error("jti 不应为空")
	}
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	t.Parallel()

	// ttl <= 0 时默认 24 小时
	tok, err := GenerateToken("secret", testUser(), 0)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	claims, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}

	want := time.Now().Add(24 * time.Hour)
	got := claims.ExpiresAt.Time
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("默认过期时间应约为 24h，实际 %v", time.Until(got))
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	// GenerateToken 对 ttl <= 0 走默认 24h，无法签出已过期的 token，
	// 这里直接构造一个 ExpiresAt 在过去的 token
	user := testUser()
	secret := "secret"
	claims := &SessionClaims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("签发过期 token 失败: %v", err)
	}

	if _, err := ParseToken(secret, tok); err == nil {
		t.Fatal("过期 token 应验证失败")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("secret-a", testUser(), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ParseToken("secret-b", tok); err == nil {
		t.Fatal("错误密钥签名的 token 应验证失败")
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ParseToken("secret", tok); err == nil {
			t.Errorf("畸形 token %q 应验证失败", tok)
		}
	}
}
