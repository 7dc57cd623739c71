package config

import (
	"log"
	"os"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	applog "shopfront/internal/log"
)

type Config struct {
	Port            string `mapstructure:"PORT"`
	DBDriver        string `mapstructure:"DB_DRIVER"` // sqlite | postgres
	DBDSN           string `mapstructure:"DB_DSN"`
	TemplatesDir    string `mapstructure:"TEMPLATES_DIR"`
	StaticDir       string `mapstructure:"STATIC_DIR"`
	MediaDir        string `mapstructure:"MEDIA_DIR"`
	MediaBaseURL    string `mapstructure:"MEDIA_BASE_URL"`
	PlaceholderURL  string `mapstructure:"PLACEHOLDER_URL"`
	CloudinaryURL   string `mapstructure:"CLOUDINARY_URL"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic      string `mapstructure:"KAFKA_TOPIC"`
	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        string `mapstructure:"SMTP_PORT"`
	SMTPUser        string `mapstructure:"SMTP_USER"`
	SMTPPassword    string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom        string `mapstructure:"SMTP_FROM"`
	PermissionsFile string `mapstructure:"PERMISSIONS_FILE"`
	LogFile         string `mapstructure:"LOG_FILE"`
	CookieSecure    bool   `mapstructure:"COOKIE_SECURE"`
}

var defaults = map[string]any{
	"PORT":             "8080",
	"DB_DRIVER":        "sqlite",
	"DB_DSN":           "shopfront.db", // sqlite file in project root
	"TEMPLATES_DIR":    "./web/templates",
	"STATIC_DIR":       "./web/static",
	"MEDIA_DIR":        "./web/media",
	"MEDIA_BASE_URL":   "/media",
	"PLACEHOLDER_URL":  "https://placehold.co",
	"CLOUDINARY_URL":   "",
	"REDIS_ADDR":       "",
	"REDIS_PASSWORD":   "",
	"KAFKA_BROKERS":    "",
	"KAFKA_TOPIC":      "shopfront.events",
	"SMTP_HOST":        "",
	"SMTP_PORT":        "25",
	"SMTP_USER":        "",
	"SMTP_PASSWORD":    "",
	"SMTP_FROM":        "no-reply@shopfront.test",
	"PERMISSIONS_FILE": "",
	"LOG_FILE":         "./shopfront.log",
	"COOKIE_SECURE":    false,
}

func newViper(file string) *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("[config] could not read %s: %v", file, err)
		}
	}
	return v
}

func decode(v *viper.Viper) Config {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("[config] unmarshal: %v", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
	}
	return cfg
}

// Load reads .env (if present), then the environment, then the optional
// CONFIG_FILE. Missing values fall back to defaults.
func Load() Config {
	_ = godotenv.Load()
	v := newViper(os.Getenv("CONFIG_FILE"))
	cfg := decode(v)
	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s TEMPLATES_DIR=%s MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.TemplatesDir, cfg.MediaDir, cfg.LogFile)
	return cfg
}

// Watch reloads the config file on change and hands the new Config to fn.
// It is a no-op when file is empty.
func Watch(file string, fn func(Config)) {
	if file == "" {
		return
	}
	v := newViper(file)
	v.OnConfigChange(func(e fsnotify.Event) {
		applog.Info(nil, "config.reload", map[string]any{"file": e.Name, "op": e.Op.String()})
		fn(decode(v))
	})
	v.WatchConfig()
}

// Changed lists the keys whose values differ between two configs, sorted.
// Values are left out so secrets never reach the log.
func Changed(old, next Config) []string {
	var a, b map[string]any
	if err := mapstructure.Decode(old, &a); err != nil {
		return nil
	}
	if err := mapstructure.Decode(next, &b); err != nil {
		return nil
	}
	var keys []string
	for k, v := range a {
		if b[k] != v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
