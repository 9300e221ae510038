package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const DEFAULT_PORT = "5001"

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"FCB_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"FCB_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"FCB_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"FCB_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"FCB_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"FCB_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"FCB_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"FCB_REDIS_DNS"`
}

// TransferConfig bounds the transfer engine's locking and retry behaviour so
// no request can block indefinitely.
type TransferConfig struct {
	LockTimeoutSec     int `json:"lock_timeout_sec" envconfig:"FCB_TRANSFER_LOCK_TIMEOUT_SEC"`
	LockWaitSec        int `json:"lock_wait_sec" envconfig:"FCB_TRANSFER_LOCK_WAIT_SEC"`
	MaxConflictRetries int `json:"max_conflict_retries" envconfig:"FCB_TRANSFER_MAX_CONFLICT_RETRIES"`
}

// AccountLockConfig parameterizes the failed-login lock guard.
type AccountLockConfig struct {
	MaxFailedAttempts int `json:"max_failed_attempts" envconfig:"FCB_ACCOUNT_LOCK_MAX_FAILED_ATTEMPTS"`
	LockoutMinutes    int `json:"lockout_minutes" envconfig:"FCB_ACCOUNT_LOCK_LOCKOUT_MINUTES"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"FCB_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"FCB_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"FCB_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName     string            `json:"project_name" envconfig:"FCB_PROJECT_NAME"`
	EnableTelemetry bool              `json:"enable_telemetry" envconfig:"FCB_ENABLE_TELEMETRY"`
	Server          ServerConfig      `json:"server"`
	DataSource      DataSourceConfig  `json:"data_source"`
	Redis           RedisConfig       `json:"redis"`
	Transfer        TransferConfig    `json:"transfer"`
	AccountLock     AccountLockConfig `json:"account_lock"`
	RateLimit       RateLimitConfig   `json:"rate_limit"`
	Notification    Notification      `json:"notification"`
}

// LockTimeout is the redis lock TTL for one transfer commit.
func (cnf *Configuration) LockTimeout() time.Duration {
	return time.Duration(cnf.Transfer.LockTimeoutSec) * time.Second
}

// LockWait bounds how long a transfer waits behind another on the same account.
func (cnf *Configuration) LockWait() time.Duration {
	return time.Duration(cnf.Transfer.LockWaitSec) * time.Second
}

// LockoutDuration is how long an account stays locked after repeated failed logins.
func (cnf *Configuration) LockoutDuration() time.Duration {
	return time.Duration(cnf.AccountLock.LockoutMinutes) * time.Minute
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("fcb", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded. Create a json file called corebank.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	cnf.applyDefaults()

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	return nil
}

func (cnf *Configuration) applyDefaults() {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "FirstChoice Corebank"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Transfer.LockTimeoutSec <= 0 {
		cnf.Transfer.LockTimeoutSec = 30
	}
	if cnf.Transfer.LockWaitSec <= 0 {
		cnf.Transfer.LockWaitSec = 5
	}
	if cnf.Transfer.MaxConflictRetries <= 0 {
		cnf.Transfer.MaxConflictRetries = 3
	}

	if cnf.AccountLock.MaxFailedAttempts <= 0 {
		cnf.AccountLock.MaxFailedAttempts = 3
	}
	if cnf.AccountLock.LockoutMinutes <= 0 {
		cnf.AccountLock.LockoutMinutes = 15
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.applyDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
