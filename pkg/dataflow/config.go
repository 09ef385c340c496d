package dataflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ═══════════════════════════════════════════════════════════════════════════
// 客户端配置
// ═══════════════════════════════════════════════════════════════════════════

// ClientUserAgent 固定的客户端标识
const ClientUserAgent = "DataFlow-Go-Client/1.0"

// Config 客户端配置
//
// 基本用法：
//
//	cfg := dataflow.DefaultConfig()
//	cfg.BaseURL = "http://localhost:8082"
//	cfg.APIKey = "sk-xxx"
//
// 超时作用于传输层的连接与读取，调用方可配置，核心不写死。
type Config struct {
	// BaseURL 服务基址（必填）
	BaseURL string `json:"base_url"`

	// APIKey 配置后附加 Authorization: Bearer 头
	APIKey string `json:"api_key"`

	// UserID 配置后附加 X-User-ID 限流身份头
	UserID string `json:"user_id"`

	// Timeout 请求超时，零值使用默认 120 秒
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8082",
		Timeout: 120 * time.Second,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return NewConfigError("base URL is required", nil)
	}
	return nil
}

// GetTimeout 获取超时，零值回退默认 120 秒
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout == 0 {
		return 120 * time.Second
	}
	return c.Timeout
}

// BuildHeaders 构建出站请求头
//
// 恒定携带 Content-Type 与客户端标识；
// Authorization 与 X-User-ID 仅在对应字段配置后附加。
func (c *Config) BuildHeaders() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   ClientUserAgent,
	}
	if c.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.APIKey
	}
	if c.UserID != "" {
		headers["X-User-ID"] = c.UserID
	}
	return headers
}

// ═══════════════════════════════════════════════════════════════════════════
// 配置文件加载
// ═══════════════════════════════════════════════════════════════════════════

// fileConfig 配置文件结构（Timeout 为时长字符串，如 "30s"）
type fileConfig struct {
	BaseURL string `yaml:"base-url" json:"base_url"`
	APIKey  string `yaml:"api-key" json:"api_key"`
	UserID  string `yaml:"user-id" json:"user_id"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// LoadConfigFile 从文件加载配置，按扩展名识别 yaml/yml/json
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigFromBytes 从字节数据加载配置
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	fc := &fileConfig{}

	// 规范化格式字符串（支持 ".yaml" 或 "yaml"）
	format = strings.TrimPrefix(strings.ToLower(format), ".")

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, fc); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s (expected yaml, yml, or json)", format)
	}

	cfg := DefaultConfig()
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	cfg.APIKey = fc.APIKey
	cfg.UserID = fc.UserID
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	return &cfg, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 环境变量探测
// ═══════════════════════════════════════════════════════════════════════════

// ConfigFromEnv 从环境变量构建配置
//
// 先尝试加载当前目录的 .env 文件（不存在则忽略），再读取：
//   - DATAFLOW_BASE_URL
//   - DATAFLOW_API_KEY
//   - DATAFLOW_USER_ID
//   - DATAFLOW_TIMEOUT（时长字符串，如 "90s"）
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("DATAFLOW_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	cfg.APIKey = os.Getenv("DATAFLOW_API_KEY")
	cfg.UserID = os.Getenv("DATAFLOW_USER_ID")
	if v := os.Getenv("DATAFLOW_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}
