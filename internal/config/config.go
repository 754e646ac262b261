package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	SessionCookie   string `yaml:"session_cookie"`
	AdminCookie     string `yaml:"admin_cookie"`
	SecureCookies   bool   `yaml:"secure_cookies"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
}

type AssistantConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	OpsChatID int64  `yaml:"ops_chat_id"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	App struct {
		BaseURL string `yaml:"base_url"` // https://onerinn.example, для ссылок в письмах
		Debug   bool   `yaml:"debug"`
	} `yaml:"app"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis RedisConfig `yaml:"redis"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Assistant AssistantConfig `yaml:"assistant"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Auth.SessionCookie == "" {
		cfg.Auth.SessionCookie = "onerinn_session"
	}
	if cfg.Auth.AdminCookie == "" {
		cfg.Auth.AdminCookie = "onerinn_admin_session"
	}
	if cfg.Auth.SessionTTLHours == 0 {
		cfg.Auth.SessionTTLHours = 24 * 7
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = "gpt-4o-mini"
	}
	return &cfg
}
