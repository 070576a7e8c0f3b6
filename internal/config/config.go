package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Drive    DriveConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	DataDir        string
	ModelsDir      string
	Periods        int
	HorizonDays    int
	ModelFileName  string
	MetricsFile    string
	RetrainOnStart bool
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	DatasetTTLSeconds int
}

// StorageConfig selects where model artifacts live. Backend is "local", "s3"
// (minio client) or "sevalla" (chartmuseum S3 backend).
type StorageConfig struct {
	Backend   string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

type DatabaseConfig struct {
	URL            string
	Driver         string // "postgres" (lib/pq) or "pgx"
	MaxConcurrency int
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	once     sync.Once
	instance *Config
)

// Load reads .env and the environment once and returns the shared configuration.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.AutomaticEnv()
		instance = FromViper(viper.GetViper())
	})

	return instance
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 120)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("APP_DATA_DIR", "./data")
	v.SetDefault("APP_MODELS_DIR", "./models")
	v.SetDefault("APP_PERIODS", 12)
	v.SetDefault("APP_HORIZON_DAYS", 14)
	v.SetDefault("APP_MODEL_FILE", "stockout14d_logreg.json")
	v.SetDefault("APP_METRICS_FILE", "metrics.json")
	v.SetDefault("APP_RETRAIN_ON_START", false)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_DATASET_TTL_SECONDS", 300)
	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("S3_PREFIX", "models")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_MAX_CONCURRENCY", 4)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// FromViper builds a Config from v after applying the defaults.
func FromViper(v *viper.Viper) *Config {
	SetDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		App: AppConfig{
			DataDir:        v.GetString("APP_DATA_DIR"),
			ModelsDir:      v.GetString("APP_MODELS_DIR"),
			Periods:        v.GetInt("APP_PERIODS"),
			HorizonDays:    v.GetInt("APP_HORIZON_DAYS"),
			ModelFileName:  v.GetString("APP_MODEL_FILE"),
			MetricsFile:    v.GetString("APP_METRICS_FILE"),
			RetrainOnStart: v.GetBool("APP_RETRAIN_ON_START"),
		},
		Cache: CacheConfig{
			Enabled:           v.GetBool("CACHE_ENABLED"),
			RedisURL:          v.GetString("REDIS_URL"),
			RedisHost:         v.GetString("REDIS_HOST"),
			RedisPort:         v.GetString("REDIS_PORT"),
			RedisPassword:     v.GetString("REDIS_PASSWORD"),
			RedisDB:           v.GetInt("REDIS_DB"),
			DatasetTTLSeconds: v.GetInt("CACHE_DATASET_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Backend:   strings.ToLower(v.GetString("STORAGE_BACKEND")),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			Prefix:    v.GetString("S3_PREFIX"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
		},
		Database: DatabaseConfig{
			URL:            v.GetString("DATABASE_URL"),
			Driver:         strings.ToLower(v.GetString("DB_DRIVER")),
			MaxConcurrency: v.GetInt("DB_MAX_CONCURRENCY"),
		},
		Drive: DriveConfig{
			CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			FolderID:        v.GetString("GOOGLE_DRIVE_FOLDER_ID"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// EnsureDir creates dir (and parents) when it does not exist yet.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
