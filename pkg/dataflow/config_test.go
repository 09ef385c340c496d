package dataflow_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agent-connector/dataflow-go/pkg/dataflow"
)

// ═══════════════════════════════════════════════════════════════════════════
// 配置测试
// ═══════════════════════════════════════════════════════════════════════════

func TestConfig_Validate(t *testing.T) {
	t.Run("默认配置有效", func(t *testing.T) {
		cfg := dataflow.DefaultConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("缺失 base URL", func(t *testing.T) {
		cfg := dataflow.Config{}
		err := cfg.Validate()

		require.Error(t, err)
		assert.True(t, dataflow.IsConfigError(err))
	})
}

func TestConfig_GetTimeout(t *testing.T) {
	t.Run("零值回退默认 120 秒", func(t *testing.T) {
		cfg := dataflow.Config{}
		assert.Equal(t, 120*time.Second, cfg.GetTimeout())
	})

	t.Run("非零保持不变", func(t *testing.T) {
		cfg := dataflow.Config{Timeout: 30 * time.Second}
		assert.Equal(t, 30*time.Second, cfg.GetTimeout())
	})
}

func TestConfig_BuildHeaders(t *testing.T) {
	t.Run("恒定头", func(t *testing.T) {
		cfg := dataflow.DefaultConfig()
		headers := cfg.BuildHeaders()

		assert.Equal(t, "application/json", headers["Content-Type"])
		assert.Equal(t, dataflow.ClientUserAgent, headers["User-Agent"])
		assert.NotContains(t, headers, "Authorization")
		assert.NotContains(t, headers, "X-User-ID")
	})

	t.Run("条件头仅在配置后附加", func(t *testing.T) {
		cfg := dataflow.Config{BaseURL: "http://x", APIKey: "sk-test", UserID: "u-1"}
		headers := cfg.BuildHeaders()

		assert.Equal(t, "Bearer sk-test", headers["Authorization"])
		assert.Equal(t, "u-1", headers["X-User-ID"])
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 配置文件加载测试
// ═══════════════════════════════════════════════════════════════════════════

func TestLoadConfigFromBytes(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		data := []byte(`
base-url: http://api.example.com
api-key: sk-yaml
user-id: u-yaml
timeout: 45s
`)
		cfg, err := dataflow.LoadConfigFromBytes(data, "yaml")

		require.NoError(t, err)
		assert.Equal(t, "http://api.example.com", cfg.BaseURL)
		assert.Equal(t, "sk-yaml", cfg.APIKey)
		assert.Equal(t, "u-yaml", cfg.UserID)
		assert.Equal(t, 45*time.Second, cfg.Timeout)
	})

	t.Run("JSON", func(t *testing.T) {
		data := []byte(`{"base_url": "http://json.example.com", "api_key": "sk-json"}`)
		cfg, err := dataflow.LoadConfigFromBytes(data, ".json")

		require.NoError(t, err)
		assert.Equal(t, "http://json.example.com", cfg.BaseURL)
		assert.Equal(t, "sk-json", cfg.APIKey)
	})

	t.Run("缺省字段落回默认值", func(t *testing.T) {
		cfg, err := dataflow.LoadConfigFromBytes([]byte(`api-key: sk-only`), "yml")

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8082", cfg.BaseURL)
		assert.Equal(t, 120*time.Second, cfg.Timeout)
	})

	t.Run("不支持的格式", func(t *testing.T) {
		_, err := dataflow.LoadConfigFromBytes([]byte(`x`), "toml")
		assert.Error(t, err)
	})

	t.Run("非法时长", func(t *testing.T) {
		_, err := dataflow.LoadConfigFromBytes([]byte(`timeout: fast`), "yaml")
		assert.Error(t, err)
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("按扩展名识别", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api-key: sk-file\n"), 0o600))

		cfg, err := dataflow.LoadConfigFile(path)

		require.NoError(t, err)
		assert.Equal(t, "sk-file", cfg.APIKey)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := dataflow.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 环境变量探测测试
// ═══════════════════════════════════════════════════════════════════════════

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DATAFLOW_BASE_URL", "http://env.example.com")
	t.Setenv("DATAFLOW_API_KEY", "sk-env")
	t.Setenv("DATAFLOW_USER_ID", "u-env")
	t.Setenv("DATAFLOW_TIMEOUT", "90s")

	cfg := dataflow.ConfigFromEnv()

	assert.Equal(t, "http://env.example.com", cfg.BaseURL)
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "u-env", cfg.UserID)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATAFLOW_BASE_URL", "")
	t.Setenv("DATAFLOW_API_KEY", "")
	t.Setenv("DATAFLOW_USER_ID", "")
	t.Setenv("DATAFLOW_TIMEOUT", "")

	cfg := dataflow.ConfigFromEnv()

	assert.Equal(t, "http://localhost:8082", cfg.BaseURL)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 120*time.Second, cfg.Timeout)
}
