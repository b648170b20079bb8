package abb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iwtcode/abbAdapter/rws"
	toml "github.com/pelletier/go-toml/v2"
)

// Config хранит модель конфигурации клиента
type Config struct {
	Host          string `toml:"host"`
	Port          uint16 `toml:"port"`
	Username      string `toml:"username"`
	Password      string `toml:"password"`
	RWSVersion    string `toml:"rws_version"`
	TimeoutMs     int    `toml:"timeout_ms"`
	InsecureTLS   bool   `toml:"insecure_tls"`
	Application   string `toml:"application"`
	Location      string `toml:"location"`
	LogLevel      string `toml:"log_level"`
	LogDir        string `toml:"log_dir"`
	LogSavingDays uint   `toml:"log_saving_days"`
}

// Default возвращает конфигурацию по умолчанию для виртуального контроллера RobotStudio.
func Default() *Config {
	return &Config{
		Host:        "127.0.0.1",
		Username:    rws.DefaultUsername,
		Password:    rws.DefaultPassword,
		RWSVersion:  rws.Version1,
		TimeoutMs:   int(rws.DefaultTimeout.Milliseconds()),
		Application: rws.DefaultApplication,
		Location:    rws.DefaultLocation,
		LogLevel:    "info",
	}
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// LoadFile читает TOML файл поверх значений по умолчанию, затем применяет
// переменные окружения. Отсутствующий файл не является ошибкой.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ABB_HOST"); v != "" {
		c.Host = v
	}
	if port, err := strconv.ParseUint(os.Getenv("ABB_PORT"), 10, 16); err == nil && port != 0 {
		c.Port = uint16(port)
	}
	if v := os.Getenv("ABB_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("ABB_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("ABB_RWS_VERSION"); v != "" {
		c.RWSVersion = v
	}
	if timeout, err := strconv.Atoi(os.Getenv("ABB_TIMEOUT")); err == nil && timeout > 0 {
		c.TimeoutMs = timeout
	}
	if insecure, err := strconv.ParseBool(os.Getenv("ABB_INSECURE_TLS")); err == nil {
		c.InsecureTLS = insecure
	}
	if v := os.Getenv("ABB_APPLICATION"); v != "" {
		c.Application = v
	}
	if v := os.Getenv("ABB_LOCATION"); v != "" {
		c.Location = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if days, err := strconv.ParseUint(os.Getenv("LOG_SAVING_DAYS"), 10, 32); err == nil {
		c.LogSavingDays = uint(days)
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("config path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
