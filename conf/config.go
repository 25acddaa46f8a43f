package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	config     *Config
	configOnce sync.Once
)

type Config struct {
	Backend struct {
		BaseURL        string `yaml:"base_url"`        // 后端API地址，如 https://api.example.com
		AccessToken    string `yaml:"access_token"`    // 用户访问令牌
		SiteURL        string `yaml:"site_url"`        // 站点地址（邀请链接的origin），默认同 base_url
		ChatURL        string `yaml:"chat_url"`        // 聊天入口地址（可选）
		DialTimeout    int    `yaml:"dial_timeout"`    // 秒
		RequestTimeout int    `yaml:"request_timeout"` // 秒
	} `yaml:"backend"`

	Cache struct {
		Backend  string `yaml:"backend"`   // file, redis
		FilePath string `yaml:"file_path"` // file 后端的存储文件路径
	} `yaml:"cache"`

	Log struct {
		Level       string `yaml:"level"`       // debug, info, warn, error
		Environment string `yaml:"environment"` // development, production
		Output      string `yaml:"output"`      // console, json (生产环境推荐 json)
		File        string `yaml:"file"`        // 日志文件路径，为空则只输出到标准错误
		MaxSizeMB   int    `yaml:"max_size_mb"`
		MaxBackups  int    `yaml:"max_backups"`
		MaxAgeDays  int    `yaml:"max_age_days"`
	} `yaml:"log"`

	// ReturnServer 本地回跳监听：支付渠道完成后浏览器跳转到这里，
	// 用于接收 trade_status 回调并暴露 /health /metrics
	ReturnServer struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    string `yaml:"port"`
	} `yaml:"return_server"`

	Redis struct {
		Address      string `yaml:"address"`
		Port         int    `yaml:"port"`
		Password     string `yaml:"password"`
		DB           int    `yaml:"db"`
		DialTimeout  int    `yaml:"dial_timeout"`  // 秒
		ReadTimeout  int    `yaml:"read_timeout"`  // 秒
		WriteTimeout int    `yaml:"write_timeout"` // 秒
		PoolSize     int    `yaml:"pool_size"`
		MinIdleConns int    `yaml:"min_idle_conns"`
	} `yaml:"redis"`

	Quota struct {
		PerUnit           float64 `yaml:"per_unit"`            // 多少额度等于1美元
		DisplayInCurrency bool    `yaml:"display_in_currency"` // 以货币形式展示额度
	} `yaml:"quota"`
}

func Init() error {
	var err error
	configOnce.Do(func() {
		config = &Config{}
		defaultConfig()

		// 读取配置文件；文件不存在时仅依赖默认值和环境变量
		data, readErr := os.ReadFile(configPath())
		if readErr == nil {
			if err = yaml.Unmarshal(data, config); err != nil {
				return
			}
		}

		// 从环境变量覆盖配置
		loadFromEnv()

		// 验证必要的配置
		if err = validateConfig(); err != nil {
			return
		}
	})
	return err
}

func configPath() string {
	if path := os.Getenv("TOPUP_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

func defaultConfig() {
	config.Backend.DialTimeout = 5
	config.Backend.RequestTimeout = 30

	config.Cache.Backend = "file"
	if home, err := os.UserHomeDir(); err == nil {
		config.Cache.FilePath = filepath.Join(home, ".topup_cache.json")
	} else {
		config.Cache.FilePath = ".topup_cache.json"
	}

	config.Log.Level = "info"
	config.Log.Environment = "development"
	config.Log.Output = "console"
	config.Log.MaxSizeMB = 50
	config.Log.MaxBackups = 3
	config.Log.MaxAgeDays = 14

	config.ReturnServer.Enabled = false
	config.ReturnServer.Host = "127.0.0.1"
	config.ReturnServer.Port = "8978"

	// Redis 默认配置
	config.Redis.Address = ""
	config.Redis.Port = 6379
	config.Redis.DB = 0
	config.Redis.DialTimeout = 5
	config.Redis.ReadTimeout = 3
	config.Redis.WriteTimeout = 3
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 5

	// 平台换算：500000 额度 = $1
	config.Quota.PerUnit = 500000
	config.Quota.DisplayInCurrency = true
}

func loadFromEnv() {
	if baseURL := os.Getenv("TOPUP_BASE_URL"); baseURL != "" {
		config.Backend.BaseURL = baseURL
	}
	if token := os.Getenv("TOPUP_ACCESS_TOKEN"); token != "" {
		config.Backend.AccessToken = token
	}
	if siteURL := os.Getenv("TOPUP_SITE_URL"); siteURL != "" {
		config.Backend.SiteURL = siteURL
	}
	if cacheFile := os.Getenv("TOPUP_CACHE_FILE"); cacheFile != "" {
		config.Cache.FilePath = cacheFile
	}
	if cacheBackend := os.Getenv("TOPUP_CACHE_BACKEND"); cacheBackend != "" {
		config.Cache.Backend = cacheBackend
	}
	if redisAddr := os.Getenv("REDIS_ADDRESS"); redisAddr != "" {
		config.Redis.Address = redisAddr
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if port, err := strconv.Atoi(redisPort); err == nil {
			config.Redis.Port = port
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			config.Redis.DB = db
		}
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Log.Level = logLevel
	}
	if logEnv := os.Getenv("LOG_ENVIRONMENT"); logEnv != "" {
		config.Log.Environment = logEnv
	}
	if logOutput := os.Getenv("LOG_OUTPUT"); logOutput != "" {
		config.Log.Output = logOutput
	}
}

func validateConfig() error {
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	if !strings.HasPrefix(config.Backend.BaseURL, "http://") && !strings.HasPrefix(config.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend base_url must start with http:// or https://")
	}
	if config.Backend.AccessToken == "" {
		return fmt.Errorf("backend access_token is required")
	}
	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")
	if config.Backend.SiteURL == "" {
		config.Backend.SiteURL = config.Backend.BaseURL
	}
	config.Backend.SiteURL = strings.TrimRight(config.Backend.SiteURL, "/")
	if config.Quota.PerUnit <= 0 {
		config.Quota.PerUnit = 500000
	}
	return nil
}

func GetConf() *Config {
	if config == nil {
		panic("config not initialized")
	}
	return config
}
