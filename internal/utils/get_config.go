package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBTimeZone string `yaml:"DB_TIMEZONE"`
	SQLitePath string `yaml:"SQLITE_PATH"`

	// Token and short link keys
	JWTSecret       string `yaml:"JWT_SECRET"`
	JWTTTLMinutes   int    `yaml:"JWT_TTL_MINUTES"`
	ShortLinkSecret string `yaml:"SHORT_LINK_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket    string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region    string `yaml:"AWS_S3_REGION"`
	AWSAccessKey   string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey   string `yaml:"AWS_SECRET_KEY"`
	AWSS3Endpoint  string `yaml:"AWS_S3_ENDPOINT"`
	AWSS3PublicURL string `yaml:"AWS_S3_PUBLIC_URL"`

	// Logging and HTTP
	LogLevel     string `yaml:"LOG_LEVEL"`
	LogFormat    string `yaml:"LOG_FORMAT"`
	LogFile      string `yaml:"LOG_FILE"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX"`
	CORSOrigins  string `yaml:"CORS_ORIGINS"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppPort:       "8080",
		AppURL:        "http://localhost:8080",
		DBDriver:      "postgres",
		DBPort:        "5432",
		DBSSLMode:     "disable",
		DBTimeZone:    "UTC",
		SQLitePath:    "foodgram.db",
		JWTTTLMinutes: 60 * 24,
		LogLevel:      "info",
		LogFormat:     "json",
		LogFile:       "./logs/app.log",
		RateLimitMax:  20,
		CORSOrigins:   "*",
	}
}

// LoadConfig reads config.yaml (when present) and then lets environment
// variables of the same name override each key.
func LoadConfig() {
	LoadConfigFile("config.yaml")
}

func LoadConfigFile(path string) {
	config = defaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	applyEnv(&config)
}

func applyEnv(c *Config) {
	str := map[string]*string{
		"APP_PORT":           &c.AppPort,
		"APP_URL":            &c.AppURL,
		"DB_DRIVER":          &c.DBDriver,
		"DB_USER":            &c.DBUser,
		"DB_NAME":            &c.DBName,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_PORT":            &c.DBPort,
		"DB_HOST":            &c.DBHost,
		"DB_SSLMODE":         &c.DBSSLMode,
		"DB_TIMEZONE":        &c.DBTimeZone,
		"SQLITE_PATH":        &c.SQLitePath,
		"JWT_SECRET":         &c.JWTSecret,
		"SHORT_LINK_SECRET":  &c.ShortLinkSecret,
		"SMTP_HOST":          &c.SMTPHost,
		"SMTP_PORT":          &c.SMTPPort,
		"SMTP_SENDER_NAME":   &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &c.SMTPAuthPassword,
		"AWS_S3_BUCKET":      &c.AWSS3Bucket,
		"AWS_S3_REGION":      &c.AWSS3Region,
		"AWS_ACCESS_KEY":     &c.AWSAccessKey,
		"AWS_SECRET_KEY":     &c.AWSSecretKey,
		"AWS_S3_ENDPOINT":    &c.AWSS3Endpoint,
		"AWS_S3_PUBLIC_URL":  &c.AWSS3PublicURL,
		"LOG_LEVEL":          &c.LogLevel,
		"LOG_FORMAT":         &c.LogFormat,
		"LOG_FILE":           &c.LogFile,
		"CORS_ORIGINS":       &c.CORSOrigins,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"JWT_TTL_MINUTES": &c.JWTTTLMinutes,
		"RATE_LIMIT_MAX":  &c.RateLimitMax,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Printf("Ignoring %s=%q: %s\n", key, v, err)
				continue
			}
			*dst = n
		}
	}
}

// SetConfig replaces a single key. Used by tests and the seed command.
func SetConfig(key, value string) {
	switch key {
	case "JWT_TTL_MINUTES", "RATE_LIMIT_MAX":
		if n, err := strconv.Atoi(value); err == nil {
			if key == "JWT_TTL_MINUTES" {
				config.JWTTTLMinutes = n
			} else {
				config.RateLimitMax = n
			}
		}
		return
	}
	os.Setenv(key, value)
	applyEnv(&config)
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		return config.DBSSLMode
	case "DB_TIMEZONE":
		return config.DBTimeZone
	case "SQLITE_PATH":
		return config.SQLitePath
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_MINUTES":
		return strconv.Itoa(config.JWTTTLMinutes)
	case "SHORT_LINK_SECRET":
		if config.ShortLinkSecret == "" {
			return config.JWTSecret
		}
		return config.ShortLinkSecret
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_S3_PUBLIC_URL":
		return config.AWSS3PublicURL
	case "LOG_LEVEL":
		return config.LogLevel
	case "LOG_FORMAT":
		return config.LogFormat
	case "LOG_FILE":
		return config.LogFile
	case "RATE_LIMIT_MAX":
		return strconv.Itoa(config.RateLimitMax)
	case "CORS_ORIGINS":
		return config.CORSOrigins
	default:
		return ""
	}
}

// GetConfigInt returns the integer value of key, or fallback when the value
// is missing or malformed.
func GetConfigInt(key string, fallback int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
