// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
// 客户端 (cmd/shopper) 与本地后端 (cmd/devbackend) 共用同一个文件。
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Toast    ToastConfig    `mapstructure:"toast"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	I18n     I18nConfig     `mapstructure:"i18n"`
	Server   ServerConfig   `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	LLM      LLMConfig      `mapstructure:"llm"`
	TryOn    TryOnConfig    `mapstructure:"tryon"`
	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig 存储本地后端的数据库配置。
type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// BackendConfig 描述客户端要连接的后端。
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ChatConfig 控制回复的逐步渲染节奏。
type ChatConfig struct {
	ChunkSize    int           `mapstructure:"chunk_size"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Suggestions  []string      `mapstructure:"suggestions"`
}

// ToastConfig 存储提示消息的显示时长。
type ToastConfig struct {
	Duration time.Duration `mapstructure:"duration"`
}

// StoreConfig 选择客户端本地持久化状态的驱动。
type StoreConfig struct {
	Driver string      `mapstructure:"driver"` // file | redis | memory
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

// ServerConfig 存储本地后端的监听配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// JWTConfig 存储会话 cookie 的签名配置。
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// LLMConfig 存储本地后端生成回复所用的模型配置。
type LLMConfig struct {
	Driver      string  `mapstructure:"driver"` // scripted | openai
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// TryOnConfig 存储试穿图片生成的配置。
type TryOnConfig struct {
	Driver string   `mapstructure:"driver"` // scripted | gemini
	APIKey string   `mapstructure:"api_key"`
	Models []string `mapstructure:"models"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 60*time.Second)
	v.SetDefault("chat.chunk_size", 2)
	v.SetDefault("chat.tick_interval", 20*time.Millisecond)
	v.SetDefault("chat.suggestions", []string{"Tell me more"})
	v.SetDefault("toast.duration", 3*time.Second)
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", ".opuluxe/state.json")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("i18n.default_language", "en")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("jwt.secret", "opuluxe-dev-secret")
	v.SetDefault("jwt.expire_hours", 72)
	v.SetDefault("llm.driver", "scripted")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("database.redis.addr", "localhost:6379")
	v.SetDefault("tryon.driver", "scripted")
	v.SetDefault("tryon.models", []string{"gemini-2.5-flash-image"})
}

// Load 读取配置文件；path 为空或文件不存在时仅使用默认值与环境变量。
// 环境变量使用 OPULUXE_ 前缀，例如 OPULUXE_BACKEND_BASE_URL。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("opuluxe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !isNotExist(err) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	if cfg.Chat.ChunkSize <= 0 {
		return nil, fmt.Errorf("chat.chunk_size must be positive, got %d", cfg.Chat.ChunkSize)
	}
	if cfg.Chat.TickInterval <= 0 {
		return nil, fmt.Errorf("chat.tick_interval must be positive, got %s", cfg.Chat.TickInterval)
	}
	return &cfg, nil
}

// Init 加载配置到全局变量 Conf，失败时 panic。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = *cfg
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
