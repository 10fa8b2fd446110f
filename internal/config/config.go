package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Postgres   Postgres   `yaml:"postgres"`
	JWT        JWT        `yaml:"jwt"`
	ES         ES         `yaml:"elasticsearch"`
	Minio      Minio      `yaml:"minio"`
	Redis      Redis      `yaml:"redis"`
	OAuth      OAuth      `yaml:"oauth"`
	Auth       Auth       `yaml:"auth"`
	Catalog    Catalog    `yaml:"catalog"`
}

type Minio struct {
	Endpoint      string        `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"minio:9000"`
	AccessKey     string        `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey     string        `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL        bool          `yaml:"use_ssl" env:"MINIO_USE_SSL"`
	PublicBaseURL string        `yaml:"public_base_url" env:"MINIO_PUBLIC_BASE_URL"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env-default:"168h"`
	Buckets       []string      `yaml:"buckets"`
}

type ES struct {
	Enabled  bool     `yaml:"enabled" env:"ES_ENABLED"`
	Hosts    []string `yaml:"hosts"`
	Index    string   `yaml:"index" env-default:"courses"`
	Password string   `yaml:"password" env:"ES_PASSWORD"`
}

type JWT struct {
	SecretKey  string        `yaml:"secret_key" env:"JWT_SECRET"`
	Issuer     string        `yaml:"issuer" env-default:"mumkin"`
	AccessTTL  time.Duration `yaml:"access_token_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_token_ttl" env-default:"720h"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type OAuth struct {
	GoogleClientID     string `yaml:"google_client_id" env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `yaml:"google_client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL        string `yaml:"redirect_url" env:"OAUTH_REDIRECT_URL"`
}

type Auth struct {
	AdminEmail      string        `yaml:"admin_email" env:"ADMIN_EMAIL"`
	LoginRateLimit  int           `yaml:"login_rate_limit" env-default:"10"`
	LoginRateWindow time.Duration `yaml:"login_rate_window" env-default:"1m"`
}

type Catalog struct {
	RefreshSchedule      string `yaml:"refresh_schedule" env-default:"@every 5m"`
	ReindexSchedule      string `yaml:"reindex_schedule" env-default:"@daily"`
	TokenCleanupSchedule string `yaml:"token_cleanup_schedule" env-default:"@hourly"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8081"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowOrigins []string      `yaml:"allow_origins"`
	MaxUploadMB  int64         `yaml:"max_upload_mb" env-default:"512"`
}

func MustLoad() *Config {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Can not read config file %s", err)
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Minio.Buckets) == 0 {
		cfg.Minio.Buckets = DefaultBuckets()
	}
	return &cfg, nil
}

func DefaultBuckets() []string {
	return []string{
		"course-images",
		"instructor-images",
		"course-videos",
		"lesson-videos",
		"cvs",
		"interview-videos",
	}
}
