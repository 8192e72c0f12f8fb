package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"` // gin mode: debug / release
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost     int `mapstructure:"bcrypt_cost"`
	MinPasswordLen int `mapstructure:"min_password_len"`
}

type SQLConsoleConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type BootstrapConfig struct {
	Email       string `mapstructure:"email"`
	Password    string `mapstructure:"password"`
	DisplayName string `mapstructure:"display_name"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Security   SecurityConfig   `mapstructure:"security"`
	SQLConsole SQLConsoleConfig `mapstructure:"sql_console"`
	Bootstrap  BootstrapConfig  `mapstructure:"bootstrap"`
}

// Debug reports whether the server runs in debug mode. In debug mode the
// SQL console surfaces raw store errors and cookies are not marked Secure.
func (c *Config) Debug() bool {
	return c.Server.Mode != "release"
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. XC_SERVER_PORT=9000, XC_SQL_CONSOLE_ENABLED=true
		// 嵌套键里的 "." 映射为环境变量里的 "_"
		v.SetEnvPrefix("XC")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		setDefaults(v)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.path", "data/xcontract_core.db")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("security.min_password_len", 6)
	v.SetDefault("sql_console.enabled", false)
	v.SetDefault("bootstrap.email", "admin@xcontract.local")
	v.SetDefault("bootstrap.password", "change-me-now")
	v.SetDefault("bootstrap.display_name", "Owner Admin")
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
