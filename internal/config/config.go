// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	DefaultLanguage         string `yaml:"default_language" env-default:"en"`
	ActivationURL           string `yaml:"activation_url" env-default:"http://localhost:8080/#/login?token=%s"`
	BcryptCost              int    `yaml:"bcrypt_cost" env-default:"10"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеширование.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	UserTTL      time.Duration `yaml:"user_ttl" env-default:"10m"`
}

// SMTP структура для настройки отправки писем.
// Insecure отключает STARTTLS, используется для локальных почтовых заглушек.
type SMTP struct {
	SMTPHost     string        `yaml:"host"`
	SMTPPort     string        `yaml:"port" env-default:"587"`
	SMTPUser     string        `yaml:"user"`
	SMTPPass     string        `yaml:"password"`
	SMTPFrom     string        `yaml:"from"`
	SMTPInsecure bool          `yaml:"insecure"`
	SMTPTimeout  time.Duration `yaml:"timeout" env-default:"10s"`
}

// MustLoad функция для загрузки конфига из файла, путь к которому задан в CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла и проставляет значения по умолчанию.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// From возвращает адрес отправителя писем, по умолчанию совпадающий с пользователем SMTP.
func (s SMTP) From() string {
	if s.SMTPFrom != "" {
		return s.SMTPFrom
	}
	return s.SMTPUser
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"DefaultLanguage: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  UserTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  Port: %s\n"+
			"  User: %s\n"+
			"  Insecure: %t\n"+
			"  Timeout: %s\n",
		c.Env,
		c.MigrationsPath,
		c.DefaultLanguage,
		c.AddressRedis,
		c.DB,
		c.UserTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.SMTPHost,
		c.SMTPPort,
		c.SMTPUser,
		c.SMTPInsecure,
		c.SMTPTimeout,
	)
}
