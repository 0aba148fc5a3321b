// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（JWT_SECRET、DB_PASSWORD、管理员引导账号）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置
//
// 使用方式：
//   - 开发环境: APP_ENV=dev (默认，内嵌 SQLite)
//   - 测试环境: APP_ENV=test
//   - 生产环境: APP_ENV=prod (PostgreSQL)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"library-admin/internal/storage/dbutil"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig 数据库配置
// driver 为 sqlite 时仅 path 生效，为 postgres 时使用 host/port/user/name/sslmode。
type DatabaseConfig struct {
	Driver  string `yaml:"driver"`
	Path    string `yaml:"path"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	User    string `yaml:"user"`
	Name    string `yaml:"name"`
	SSLMode string `yaml:"sslmode"`
}

// AuthConfig 认证配置
// token_ttl 为 time.ParseDuration 接受的字符串（如 "24h"）。
type AuthConfig struct {
	TokenTTL    string `yaml:"token_ttl"`
	DefaultRole string `yaml:"default_role"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env         Environment
	APIPort     string
	DBDriver    dbutil.DriverType
	DatabaseDSN string

	JWTSecret   string
	TokenTTL    time.Duration
	DefaultRole string

	// 管理员引导账号（可选，来自 .env / 环境变量）
	AdminUsername string
	AdminPassword string
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 构建最终配置
func Load() *Config {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	env := parseEnv(getEnv("APP_ENV", "dev"))
	yamlCfg := loadYAMLConfig(env)

	driver := dbutil.DriverType(getEnv("DB_DRIVER", yamlCfg.Database.Driver))
	cfg := &Config{
		Env:           env,
		APIPort:       getEnv("API_PORT", yamlCfg.Server.Port),
		DBDriver:      driver,
		DatabaseDSN:   buildDSN(driver, yamlCfg.Database),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      parseTTL(yamlCfg.Auth.TokenTTL),
		DefaultRole:   yamlCfg.Auth.DefaultRole,
		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
	cfg.validate()
	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	cfg := &YAMLConfig{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Driver: "sqlite", Path: "library.db", Host: "localhost", Port: 5432, User: "library", Name: "library", SSLMode: "disable"},
		Auth:     AuthConfig{TokenTTL: "24h", DefaultRole: "customer"},
	}

	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

// buildDSN 构建数据库连接字符串
func buildDSN(driver dbutil.DriverType, db DatabaseConfig) string {
	if driver == dbutil.DriverPostgres {
		password := getEnv("DB_PASSWORD", "library_dev_password")
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			db.User, password, db.Host, db.Port, db.Name, db.SSLMode)
	}
	if db.Path == ":memory:" {
		return ":memory:"
	}
	return fmt.Sprintf("file:%s?cache=shared&mode=rwc", db.Path)
}

// parseTTL 解析令牌有效期，非法值回退为零值（validate 会补默认值）
func parseTTL(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// String 返回配置摘要（隐藏密码）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Driver: %s, DB: %s, Port: %s}",
		c.Env, c.DBDriver, maskPassword(c.DatabaseDSN), c.APIPort)
}

// maskPassword 隐藏连接串中的密码
func maskPassword(url string) string {
	re := regexp.MustCompile(`(://[^:]+:)([^@]+)(@)`)
	return re.ReplaceAllString(url, "${1}***${3}")
}

// validate 验证并填充默认值
func (c *Config) validate() {
	if c.APIPort == "" {
		c.APIPort = "8080"
	}
	if c.DBDriver == "" {
		c.DBDriver = dbutil.DriverSQLite
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.DefaultRole == "" {
		c.DefaultRole = "customer"
	}
}
