// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Render    RenderConfig    `mapstructure:"render"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Tika      TikaConfig      `mapstructure:"tika"`
	Converter ConverterConfig `mapstructure:"converter"`
	Assets    AssetsConfig    `mapstructure:"assets"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// SessionConfig 存储会话 cookie 与会话存储的配置。
// Store 取值 "memory" 或 "redis"。
type SessionConfig struct {
	Secret        string        `mapstructure:"secret"`
	CookieName    string        `mapstructure:"cookie_name"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Store         string        `mapstructure:"store"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// ArtifactsConfig 决定生成图片与待识别上传图片的存放位置（"memory" 或 "minio"）。
type ArtifactsConfig struct {
	Backend string `mapstructure:"backend"`
}

// KafkaConfig 存储 Kafka 相关的配置。Brokers 为空时不发送使用事件。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// RenderConfig 存储文字转图片的画布与字体配置。
type RenderConfig struct {
	Width           int      `mapstructure:"width"`
	Height          int      `mapstructure:"height"`
	AnchorX         int      `mapstructure:"anchor_x"`
	AnchorY         int      `mapstructure:"anchor_y"`
	FontName        string   `mapstructure:"font_name"`
	FontDirs        []string `mapstructure:"font_dirs"`
	DefaultFontSize int      `mapstructure:"default_font_size"`
	DefaultColor    string   `mapstructure:"default_color"`
}

// OCRConfig 存储 OCR 引擎配置，Engine 取值 "tesseract" 或 "tika"。
type OCRConfig struct {
	Engine    string   `mapstructure:"engine"`
	Languages []string `mapstructure:"languages"`
}

// TikaConfig 存储 Tika 服务器相关的配置。
type TikaConfig struct {
	ServerURL string `mapstructure:"server_url"`
}

// ConverterConfig 存储转换流程的公共配置。Delay 为模拟的处理耗时，可为 0。
type ConverterConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// AssetsConfig 存储页面静态资源配置。
type AssetsConfig struct {
	LogoPath  string `mapstructure:"logo_path"`
	LogoWidth int    `mapstructure:"logo_width"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("session.cookie_name", "dop_session")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.sweep_interval", 5*time.Minute)
	v.SetDefault("session.store", "memory")
	v.SetDefault("artifacts.backend", "memory")
	v.SetDefault("kafka.topic", "design-o-pedia-usage")
	v.SetDefault("render.width", 500)
	v.SetDefault("render.height", 300)
	v.SetDefault("render.anchor_x", 50)
	v.SetDefault("render.anchor_y", 130)
	v.SetDefault("render.font_name", "arial.ttf")
	v.SetDefault("render.font_dirs", []string{".", "./fonts", "/usr/share/fonts/truetype/msttcorefonts", "/Library/Fonts", "C:\\Windows\\Fonts"})
	v.SetDefault("render.default_font_size", 40)
	v.SetDefault("render.default_color", "#000000")
	v.SetDefault("ocr.engine", "tesseract")
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("converter.delay", 2*time.Second)
	v.SetDefault("assets.logo_path", "logo.png")
	v.SetDefault("assets.logo_width", 60)
}

// Load 从指定路径读取 YAML 配置，环境变量（前缀 DOP_）可覆盖文件中的值。
func Load(configPath string) (Config, error) {
	// .env 文件可选，不存在时直接使用系统环境变量
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return cfg, nil
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = cfg
}
