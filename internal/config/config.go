package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"talonbot/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Backend    BackendConfig    `yaml:"backend"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Bot        BotConfig        `yaml:"bot"`
	Blacklist  []int64          `yaml:"blacklist"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

// BackendConfig описывает подключение к REST-бэкенду госуслуг.
// Все вызовы подписываются статическим секретом в заголовке SecretHeader.
type BackendConfig struct {
	UserCheckURL    string  `yaml:"user_check_url"`
	UserRegisterURL string  `yaml:"user_register_url"`
	MenuURL         string  `yaml:"menu_url"`
	DepartmentsURL  string  `yaml:"departments_url"`
	TicketURL       string  `yaml:"ticket_url"`
	Secret          string  `yaml:"secret"`
	SecretHeader    string  `yaml:"secret_header"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	RPS             float64 `yaml:"rps"`
	Burst           int     `yaml:"burst"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type BotConfig struct {
	RateLimitMessages int    `yaml:"rate_limit_messages"`
	RateLimitWindow   int    `yaml:"rate_limit_window"`
	StateTTL          int    `yaml:"state_ttl"`
	Locale            string `yaml:"locale"`
}

func Load(configPath string) (*Config, error) {
	// .env необязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.Backend.Secret == "" {
		return errors.New("backend secret is required")
	}

	urls := map[string]string{
		"backend.user_check_url":    c.Backend.UserCheckURL,
		"backend.user_register_url": c.Backend.UserRegisterURL,
		"backend.menu_url":          c.Backend.MenuURL,
		"backend.departments_url":   c.Backend.DepartmentsURL,
		"backend.ticket_url":        c.Backend.TicketURL,
	}
	for name, u := range urls {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Backend.SecretHeader == "" {
		c.Backend.SecretHeader = "X-Auth-Token"
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Backend.RPS == 0 {
		c.Backend.RPS = 10
	}
	if c.Backend.Burst == 0 {
		c.Backend.Burst = 5
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	// Bot defaults
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
	if c.Bot.StateTTL == 0 {
		c.Bot.StateTTL = models.DefaultStateTTL
	}
	if c.Bot.Locale == "" {
		c.Bot.Locale = "ru"
	}
}
