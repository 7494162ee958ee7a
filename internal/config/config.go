// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	POS      POSConfig
	Vision   VisionConfig
	DocAI    DocAIConfig
	Report   ReportConfig
	Archive  ArchiveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// POSConfig holds credentials for the external point-of-sale platform that
// supplies catalog items and sales transactions. Empty token disables sync.
type POSConfig struct {
	BaseURL     string
	AccessToken string
	LocationID  string
}

// VisionConfig points at the service-account credentials used for OCR text
// extraction from uploaded receipt images. Empty disables OCR.
type VisionConfig struct {
	CredentialsJSON string
}

// DocAIConfig configures the optional structured document-understanding
// service that preempts the heuristic receipt parser when reachable.
type DocAIConfig struct {
	Endpoint string
	APIKey   string
}

// ReportConfig points at the HTML-to-PDF conversion service.
type ReportConfig struct {
	GotenbergURL string
}

// ArchiveConfig configures the S3-compatible object store where raw receipt
// documents are archived before parsing.
type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "bakeops")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("POS_BASE_URL", "https://connect.squareup.com")
		viper.SetDefault("GOTENBERG_URL", "")
		viper.SetDefault("DOCAI_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_USE_SSL", true)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
			},
			POS: POSConfig{
				BaseURL:     viper.GetString("POS_BASE_URL"),
				AccessToken: viper.GetString("POS_ACCESS_TOKEN"),
				LocationID:  viper.GetString("POS_LOCATION_ID"),
			},
			Vision: VisionConfig{
				CredentialsJSON: os.Getenv("VISION_CREDENTIALS_JSON"),
			},
			DocAI: DocAIConfig{
				Endpoint: viper.GetString("DOCAI_ENDPOINT"),
				APIKey:   viper.GetString("DOCAI_API_KEY"),
			},
			Report: ReportConfig{
				GotenbergURL: viper.GetString("GOTENBERG_URL"),
			},
			Archive: ArchiveConfig{
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
		}

		if instance.Database.Host == "" || instance.Database.DBName == "" {
			log.Fatal("database configuration is required: set DB_HOST and DB_NAME")
		}
	})

	return instance
}
