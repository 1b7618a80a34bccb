package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mail transports selectable with MAIL_TRANSPORT.
const (
	MailLog      = "log"
	MailSMTP     = "smtp"
	MailRabbitMQ = "rabbitmq"
)

// MemoryDB as DB_ADDR selects the in-memory stores (dev only).
const MemoryDB = "memory"

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr      string
	PublicBaseURL string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	//Auth / Security
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int

	// Database
	DBAddr        string
	DBDebug       bool
	DBAutoMigrate bool
	SeedDemo      bool

	// Redis (empty addr disables shared rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Outbound mail
	MailTransport   string
	MailServer      string
	MailPort        int
	MailUsername    string
	MailPassword    string
	MailFrom        string
	MailFromName    string
	MailQueueSize   int
	MailWorkers     int
	MailSendTimeout time.Duration

	RabbitURL      string
	RabbitExchange string

	// Avatar storage (empty bucket disables upload)
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string
	S3UsePathStyle    bool
	AvatarMaxBytes    int64

	// Rate limits, requests per minute
	RLRegisterPerMin int
	RLContactsPerMin int

	LogLevel  string
	LogFormat string

	// MetricsToken guards /metrics via X-Internal-Secret; empty leaves it open.
	MetricsToken string

	// CORSOrigins is empty when CORS_ENABLED=false.
	CORSOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("ENV", "dev"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8000"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8000"), "/"),
		JWTIssuer:     getEnv("JWT_ISSUER", "contacts-service"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MailTransport: strings.ToLower(getEnv("MAIL_TRANSPORT", MailLog)),
		MailServer:    os.Getenv("MAIL_SERVER"),
		MailUsername:  os.Getenv("MAIL_USERNAME"),
		MailPassword:  os.Getenv("MAIL_PASSWORD"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		MailFromName:  os.Getenv("MAIL_FROM_NAME"),

		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "contacts.events"),

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		MetricsToken: os.Getenv("METRICS_TOKEN"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	if cfg.DBAddr == MemoryDB && cfg.Env != "dev" {
		return nil, fmt.Errorf("DB_ADDR=%s is only allowed with ENV=dev", MemoryDB)
	}

	var err error

	// durations
	for _, d := range []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", 30 * time.Minute, &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", 7 * 24 * time.Hour, &cfg.RefreshTokenTTL},
		{"HTTP_READ_TIMEOUT", 10 * time.Second, &cfg.HTTPReadTimeout},
		{"HTTP_WRITE_TIMEOUT", 30 * time.Second, &cfg.HTTPWriteTimeout},
		{"HTTP_IDLE_TIMEOUT", time.Minute, &cfg.HTTPIdleTimeout},
		{"MAIL_SEND_TIMEOUT", 10 * time.Second, &cfg.MailSendTimeout},
	} {
		if *d.dst, err = getDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	// integers
	for _, n := range []struct {
		key string
		def int
		dst *int
	}{
		{"BCRYPT_COST", 12, &cfg.BcryptCost},
		{"REDIS_DB", 0, &cfg.RedisDB},
		{"MAIL_PORT", 587, &cfg.MailPort},
		{"MAIL_QUEUE_SIZE", 100, &cfg.MailQueueSize},
		{"MAIL_WORKERS", 1, &cfg.MailWorkers},
		{"RL_REGISTER_PER_MIN", 5, &cfg.RLRegisterPerMin},
		{"RL_CONTACTS_PER_MIN", 100, &cfg.RLContactsPerMin},
	} {
		if *n.dst, err = getInt(n.key, n.def); err != nil {
			return nil, err
		}
	}

	maxBytes, err := getInt("AVATAR_MAX_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("AVATAR_MAX_BYTES must be positive, got %d", maxBytes)
	}
	cfg.AvatarMaxBytes = int64(maxBytes)

	// booleans
	for _, b := range []struct {
		key string
		def bool
		dst *bool
	}{
		{"DB_DEBUG", false, &cfg.DBDebug},
		{"DB_AUTO_MIGRATE", true, &cfg.DBAutoMigrate},
		{"SEED_DEMO", false, &cfg.SeedDemo},
		{"S3_USE_PATH_STYLE", true, &cfg.S3UsePathStyle},
	} {
		if *b.dst, err = getBool(b.key, b.def); err != nil {
			return nil, err
		}
	}

	corsEnabled, err := getBool("CORS_ENABLED", true)
	if err != nil {
		return nil, err
	}
	if corsEnabled {
		for _, o := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	switch cfg.MailTransport {
	case MailLog:
	case MailSMTP:
		if cfg.MailServer == "" {
			return nil, fmt.Errorf("MAIL_TRANSPORT=smtp requires MAIL_SERVER")
		}
		if cfg.MailFrom == "" {
			return nil, fmt.Errorf("MAIL_TRANSPORT=smtp requires MAIL_FROM")
		}
	case MailRabbitMQ:
		if cfg.RabbitURL == "" {
			return nil, fmt.Errorf("MAIL_TRANSPORT=rabbitmq requires RABBIT_URL")
		}
	default:
		return nil, fmt.Errorf("invalid MAIL_TRANSPORT %q (want log, smtp or rabbitmq)", cfg.MailTransport)
	}

	if cfg.MailQueueSize <= 0 || cfg.MailWorkers <= 0 {
		return nil, fmt.Errorf("MAIL_QUEUE_SIZE and MAIL_WORKERS must be positive")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s: %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
