package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	App       AppConfig       `mapstructure:"app"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Purchase  PurchaseConfig  `mapstructure:"purchase"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	OSS       OSSConfig       `mapstructure:"oss"`
	Push      PushConfig      `mapstructure:"push"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

// DSN 返回 golang-migrate 使用的 URL 形式连接串
func (c DatabaseConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env             string `mapstructure:"env"`
	Debug           bool   `mapstructure:"debug"`
	MaintenanceMode bool   `mapstructure:"maintenance_mode"`
}

// AdminConfig 后台管理员账号 (单账号)
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// GatewayConfig 支付网关 (Razorpay)
type GatewayConfig struct {
	KeyID      string        `mapstructure:"key_id"`
	KeySecret  string        `mapstructure:"key_secret"`
	BaseURL    string        `mapstructure:"base_url"`
	Currency   string        `mapstructure:"currency"`
	Timeout    time.Duration `mapstructure:"timeout"`
	PendingTTL time.Duration `mapstructure:"pending_ttl"` // 待支付记录保留时长
}

// PurchaseConfig 下单流程超时
type PurchaseConfig struct {
	FinalizeTimeout time.Duration `mapstructure:"finalize_timeout"`
	IOTimeout       time.Duration `mapstructure:"io_timeout"`
}

type RateLimitConfig struct {
	QPS   float64 `mapstructure:"qps"`
	Burst int     `mapstructure:"burst"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
}

type PushConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	AppKey          int64  `mapstructure:"app_key"`
	RegionID        string `mapstructure:"region_id"`        // e.g., "cn-hangzhou"
	OperatorAccount string `mapstructure:"operator_account"` // 运营告警接收账号
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	// JWT 配置验证
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	// 数据库配置验证
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	// Redis 配置验证
	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	if c.Gateway.Currency == "" {
		return errors.New("gateway currency is required")
	}
	if c.Purchase.IOTimeout <= 0 || c.Purchase.FinalizeTimeout < c.Purchase.IOTimeout {
		return errors.New("purchase timeouts are invalid")
	}

	// 网关密钥允许为空 (此时创建支付返回 GatewayUnavailable)，只提示
	if c.Gateway.KeyID == "" || c.Gateway.KeySecret == "" {
		log.Println("Warning: payment gateway credentials are not configured")
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.shutdown_timeout", 15*time.Second)
	viper.SetDefault("server.allow_origins", []string{"*"})
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.timezone", "UTC")
	viper.SetDefault("jwt.expire", 24)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.maintenance_mode", false)
	viper.SetDefault("gateway.base_url", "https://api.razorpay.com")
	viper.SetDefault("gateway.currency", "INR")
	viper.SetDefault("gateway.timeout", 10*time.Second)
	viper.SetDefault("gateway.pending_ttl", 2*time.Hour)
	viper.SetDefault("purchase.finalize_timeout", 60*time.Second)
	viper.SetDefault("purchase.io_timeout", 10*time.Second)
	viper.SetDefault("ratelimit.qps", 20)
	viper.SetDefault("ratelimit.burst", 40)
}

// LoadConfig 加载配置
func LoadConfig() {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// 根据环境选择配置文件
	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量 (gateway.key_id -> GATEWAY_KEY_ID)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	applyEnvOverrides(&GlobalConfig)

	// 验证配置
	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}

// applyEnvOverrides 手动覆盖，沿用部署环境里已有的变量名
func applyEnvOverrides(c *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		c.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		c.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		c.JWT.Secret = jwtSecret
	}
	if keyID := os.Getenv("RAZORPAY_KEY_ID"); keyID != "" {
		c.Gateway.KeyID = keyID
	}
	if keySecret := os.Getenv("RAZORPAY_KEY_SECRET"); keySecret != "" {
		c.Gateway.KeySecret = keySecret
	}
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		c.Admin.Email = email
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		c.Admin.Password = password
	}
	if os.Getenv("MAINTENANCE_MODE") == "true" {
		c.App.MaintenanceMode = true
	}
}
