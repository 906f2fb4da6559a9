package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"pareto_backend/internal/logger"
)

type Config struct {
	Server struct {
		Host            string   `yaml:"host"`
		Port            int      `yaml:"port"`
		Env             string   `yaml:"env"`
		ReadTimeout     int      `yaml:"read_timeout"`     // seconds
		WriteTimeout    int      `yaml:"write_timeout"`    // seconds
		ShutdownTimeout int      `yaml:"shutdown_timeout"` // seconds
		AllowedOrigins  []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, mysql, sqlite
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		LogLevel     string `yaml:"log_level"` // silent, error, warn, info
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"` // empty = embedded templates
		Disabled     bool   `yaml:"disabled"`      // log instead of sending
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Storage struct {
		Type           string `yaml:"type"`      // local, s3, cloudflare_r2
		BasePath       string `yaml:"base_path"` // local storage root
		BaseURL        string `yaml:"base_url"`  // public URL base for local storage
		Region         string `yaml:"region"`
		AccessKey      string `yaml:"access_key"`
		SecretKey      string `yaml:"secret_key"`
		Endpoint       string `yaml:"endpoint"` // R2 or any S3 compatible endpoint
		PublicBaseURL  string `yaml:"public_base_url"`
		ForcePathStyle bool   `yaml:"force_path_style"`
		SignedURLTTL   int    `yaml:"signed_url_ttl"` // seconds
		Buckets        struct {
			Documents string `yaml:"documents"`
			Profiles  string `yaml:"profiles"`
			Logos     string `yaml:"logos"`
		} `yaml:"buckets"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize           int64 `yaml:"max_size"`            // bytes
		MaxImageSize      int64 `yaml:"max_image_size"`      // bytes
		ImageMaxDimension int   `yaml:"image_max_dimension"` // px, longest side
		ImageQuality      int   `yaml:"image_quality"`       // JPEG 1-100
	} `yaml:"upload"`

	Auth struct {
		MagicLinkTTL        int `yaml:"magic_link_ttl"` // minutes
		MagicLinkRateLimit  int `yaml:"magic_link_rate_limit"`
		MagicLinkRateWindow int `yaml:"magic_link_rate_window"` // seconds
		TempPasswordLength  int `yaml:"temp_password_length"`
		MinPasswordScore    int `yaml:"min_password_score"`
	} `yaml:"auth"`

	Redis struct {
		Addr     string `yaml:"addr"` // empty = in-memory rate limiter
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Functions struct {
		Port       int    `yaml:"port"`
		AnonKey    string `yaml:"anon_key"`
		ServiceKey string `yaml:"service_key"`
	} `yaml:"functions"`

	App struct {
		SiteURL           string `yaml:"site_url"`
		AdminEmail        string `yaml:"admin_email"`
		ReconcileInterval int    `yaml:"reconcile_interval"` // seconds, 0 disables
		FirstSuperAdmin   struct {
			Email    string `yaml:"email"`
			Name     string `yaml:"name"`
			Password string `yaml:"password"`
		} `yaml:"first_super_admin"`
	} `yaml:"app"`

	Content struct {
		Path string `yaml:"path"` // empty = embedded catalogue
	} `yaml:"content"`
}

var AppConfig *Config

// Default returns a config usable for local development and tests.
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.ReadTimeout = 15
	cfg.Server.WriteTimeout = 30
	cfg.Server.ShutdownTimeout = 10
	cfg.Server.AllowedOrigins = []string{"*"}

	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "pareto.db"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.LogLevel = "warn"

	cfg.Email.SMTPHost = "localhost"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@paretofellowship.org"
	cfg.Email.FromName = "Pareto Fellowship"
	cfg.Email.Disabled = true

	cfg.JWT.TTL = 60 * 24

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"
	cfg.Storage.SignedURLTTL = 3600
	cfg.Storage.Buckets.Documents = "documents"
	cfg.Storage.Buckets.Profiles = "profiles"
	cfg.Storage.Buckets.Logos = "logos"

	cfg.Upload.MaxSize = 20 * 1024 * 1024
	cfg.Upload.MaxImageSize = 5 * 1024 * 1024
	cfg.Upload.ImageMaxDimension = 512
	cfg.Upload.ImageQuality = 85

	cfg.Auth.MagicLinkTTL = 60
	cfg.Auth.MagicLinkRateLimit = 5
	cfg.Auth.MagicLinkRateWindow = 900
	cfg.Auth.TempPasswordLength = 16
	cfg.Auth.MinPasswordScore = 4

	cfg.Functions.Port = 8081

	cfg.App.SiteURL = "http://localhost:3000"
	cfg.App.AdminEmail = "team@paretofellowship.org"
	cfg.App.ReconcileInterval = 300

	return &cfg
}

// Load reads the YAML file at path on top of the defaults and then applies
// environment overrides. A missing file is only an error when the path was given explicitly.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case explicit || !os.IsNotExist(err):
		return nil, fmt.Errorf("open config file %s: %w", path, err)
	default:
		logger.Warn("Config file not found, using defaults", "path", path)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads the global config or exits.
func LoadConfig() {
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "config/config.yaml"
	}

	cfg, err := Load(path, explicit)
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// Validate rejects configs that cannot run outside development.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Storage.Type {
	case "local", "s3", "cloudflare_r2":
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}
	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return fmt.Errorf("jwt.secret is required in production")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	// an unset service key leaves create-approved-user and create-bucket open
	if c.IsProduction() && c.Functions.ServiceKey == "" {
		return fmt.Errorf("functions.service_key is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) MagicLinkTTL() time.Duration {
	return time.Duration(c.Auth.MagicLinkTTL) * time.Minute
}

func (c *Config) SignedURLTTL() time.Duration {
	return time.Duration(c.Storage.SignedURLTTL) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "SERVER_ENV")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")

	setString(&cfg.JWT.Secret, "JWT_SECRET")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")
	if v := os.Getenv("EMAIL_DISABLED"); v != "" {
		cfg.Email.Disabled, _ = strconv.ParseBool(v)
	}

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.PublicBaseURL, "STORAGE_PUBLIC_URL")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Functions.AnonKey, "FUNCTIONS_ANON_KEY")
	setString(&cfg.Functions.ServiceKey, "FUNCTIONS_SERVICE_KEY")
	setInt(&cfg.Functions.Port, "FUNCTIONS_PORT")

	setString(&cfg.App.SiteURL, "SITE_URL")
	setString(&cfg.App.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.App.FirstSuperAdmin.Email, "SUPER_ADMIN_EMAIL")
	setString(&cfg.App.FirstSuperAdmin.Name, "SUPER_ADMIN_NAME")
	setString(&cfg.App.FirstSuperAdmin.Password, "SUPER_ADMIN_PASSWORD")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("Ignoring non-numeric env override", "key", key, "value", v)
		return
	}
	*dst = n
}
