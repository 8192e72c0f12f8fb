package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Load 使用 sync.Once，整个测试进程只能加载一次，
// 文件值和环境变量覆盖在同一个测试里一并验证。
func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9100
  mode: release
jwt:
  secret: file-secret
sql_console:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("写测试配置失败: %v", err)
	}

	// 环境变量应覆盖文件里的 sql_console.enabled
	t.Setenv("XC_SQL_CONSOLE_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("server.port 应取文件值 9100，实际 %d", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "file-secret" {
		t.Errorf("jwt.secret 应取文件值，实际 %q", cfg.JWT.Secret)
	}
	if !cfg.SQLConsole.Enabled {
		t.Error("XC_SQL_CONSOLE_ENABLED=true 应覆盖文件里的 false")
	}

	// 未在文件中出现的键走默认值
	if cfg.Security.MinPasswordLen != 6 {
		t.Errorf("security.min_password_len 默认应为 6，实际 %d", cfg.Security.MinPasswordLen)
	}
	if cfg.Debug() {
		t.Error("release 模式下 Debug() 应为 false")
	}

	// Get 返回同一份配置
	if Get() != cfg {
		t.Error("Get() 应返回已加载的配置")
	}
}
