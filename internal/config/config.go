package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the contact store factory.
const (
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	StorageDriver     string
	DataDir           string
	ContactsFile      string
	StrictReads       bool
	DatabaseURL       string
	RedisURL          string
	ThrottleMax       int
	ThrottleWindow    time.Duration
	NATSURL           string
	NATSSubjectPrefix string
	MailEnabled       bool
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	MailFromEmail     string
	MailFromName      string
	NotificationEmail string
	NotifyTimeout     time.Duration
	NotifyWorkers     int
	NotifyQueueSize   int
	NotifyTimezone    string
	StrictValidation  bool
	CORSAllowOrigins  string
	SubmitRateLimit   int
	SubmitRateWindow  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// ContactsPath returns the location of the JSON collection used by the file store.
func (c Config) ContactsPath() string {
	return filepath.Join(c.DataDir, c.ContactsFile)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ACCURO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Accuro API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("storage.driver", StorageDriverFile)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.contacts_file", "contacts.json")
	v.SetDefault("storage.strict_reads", false)
	v.SetDefault("throttle.max", 5)
	v.SetDefault("throttle.window", "10m")
	v.SetDefault("nats.subject_prefix", "accuro")
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.smtp_host", "smtp.gmail.com")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.from_name", "Accuro Website")
	v.SetDefault("notify.timeout", "15s")
	v.SetDefault("notify.workers", 2)
	v.SetDefault("notify.queue_size", 100)
	v.SetDefault("notify.timezone", "Asia/Manila")
	v.SetDefault("validation.strict", true)
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("submit.rate_limit", 20)
	v.SetDefault("submit.rate_window", "1m")
}

func fromViper(v *viper.Viper) (Config, error) {
	throttleWindow, err := parseDuration(v, "throttle.window", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}

	notifyTimeout, err := parseDuration(v, "notify.timeout", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	rateWindow, err := parseDuration(v, "submit.rate_window", time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		StorageDriver:     strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		DataDir:           v.GetString("storage.data_dir"),
		ContactsFile:      v.GetString("storage.contacts_file"),
		StrictReads:       v.GetBool("storage.strict_reads"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		ThrottleMax:       v.GetInt("throttle.max"),
		ThrottleWindow:    throttleWindow,
		NATSURL:           v.GetString("nats.url"),
		NATSSubjectPrefix: v.GetString("nats.subject_prefix"),
		MailEnabled:       v.GetBool("mail.enabled"),
		SMTPHost:          v.GetString("mail.smtp_host"),
		SMTPPort:          v.GetInt("mail.smtp_port"),
		SMTPUsername:      v.GetString("mail.username"),
		SMTPPassword:      v.GetString("mail.password"),
		MailFromEmail:     v.GetString("mail.from_email"),
		MailFromName:      v.GetString("mail.from_name"),
		NotificationEmail: v.GetString("notification.email"),
		NotifyTimeout:     notifyTimeout,
		NotifyWorkers:     v.GetInt("notify.workers"),
		NotifyQueueSize:   v.GetInt("notify.queue_size"),
		NotifyTimezone:    v.GetString("notify.timezone"),
		StrictValidation:  v.GetBool("validation.strict"),
		CORSAllowOrigins:  v.GetString("cors.allow_origins"),
		SubmitRateLimit:   v.GetInt("submit.rate_limit"),
		SubmitRateWindow:  rateWindow,
	}

	if cfg.MailFromEmail == "" {
		cfg.MailFromEmail = cfg.SMTPUsername
	}
	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = 2
	}
	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = 100
	}
	if cfg.ThrottleMax <= 0 {
		cfg.ThrottleMax = 5
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverFile:
		if c.DataDir == "" || c.ContactsFile == "" {
			return fmt.Errorf("storage data dir and contacts file must be provided")
		}
	case StorageDriverSQLite, StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database url must be provided for %s storage", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}

	if c.MailEnabled {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("smtp host, username and password must be provided when mail is enabled")
		}
		if c.NotificationEmail == "" {
			return fmt.Errorf("notification email must be provided when mail is enabled")
		}
	}

	return nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", strings.ReplaceAll(key, ".", " "), err)
	}

	return value, nil
}
