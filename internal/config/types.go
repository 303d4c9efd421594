package config

import (
	"time"

	"github.com/danevents/api/internal/logger"
)

// Config represents the application configuration
type Config struct {
	Environment string         `mapstructure:"environment" yaml:"environment"`
	Server      ServerConfig   `mapstructure:"server" yaml:"server"`
	Database    DatabaseConfig `mapstructure:"database" yaml:"database"`
	Redis       RedisConfig    `mapstructure:"redis" yaml:"redis"`
	Storage     StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Auth        AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Cache       CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Upload      UploadConfig   `mapstructure:"upload" yaml:"upload"`
	Logging     logger.Config  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig represents database configuration settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Dbname   string `mapstructure:"dbname"`
	Port     int    `mapstructure:"port"`
	Sslmode  string `mapstructure:"sslmode"`
	Timezone string `mapstructure:"timezone"`
	Pool     struct {
		MaxOpen int `mapstructure:"maxOpen"`
		MaxIdle int `mapstructure:"maxIdle"`
	} `mapstructure:"pool"`
}

// RedisConfig represents Redis configuration settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig represents object storage configuration settings
type StorageConfig struct {
	S3 S3Config `mapstructure:"s3"`
}

// S3Config represents S3-compatible object storage settings
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	UseSSL          bool   `mapstructure:"useSSL"`
}

// AuthConfig represents authentication configuration settings
type AuthConfig struct {
	JWT struct {
		Secret         string        `mapstructure:"secret"`
		AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
	} `mapstructure:"jwt"`
}

// CacheConfig carries the TTLs applied to cached entities. Listings and
// single events age out after EventTTL; booking lookups use BookingTTL.
type CacheConfig struct {
	EventTTL   time.Duration `mapstructure:"eventTTL"`
	BookingTTL time.Duration `mapstructure:"bookingTTL"`
	UserTTL    time.Duration `mapstructure:"userTTL"`
}

// UploadConfig represents image upload limits
type UploadConfig struct {
	MaxEventImageSize   int64    `mapstructure:"maxEventImageSize"`
	MaxProfileImageSize int64    `mapstructure:"maxProfileImageSize"`
	AllowedExtensions   []string `mapstructure:"allowedExtensions"`
}
