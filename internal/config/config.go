package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrNoConfig возвращается Load, если путь к конфигу не задан ни аргументом, ни через ENV
var ErrNoConfig = errors.New("конфиг не задан")

// ConfigEnv - переменная окружения с путём к YAML конфигу
const ConfigEnv = "PATHING_CONFIG"

// Config корневая структура конфигурации приложения.
type Config struct {
	Pathing  Pathing        `yaml:"pathing"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// Pathing - снимок настроек навигации. Передаётся по значению,
// поэтому изменения после начала поиска на него не влияют.
type Pathing struct {
	AllowBreak             bool    `yaml:"allow_break"`
	AllowPlace             bool    `yaml:"allow_place"`
	MaxFallHeightNoWater   int     `yaml:"max_fall_height_no_water"`
	MaxFallHeightWithWater int     `yaml:"max_fall_height_with_water"`
	PathTimeoutMs          int     `yaml:"path_timeout_ms"`
	PlanAheadTimeoutMs     int     `yaml:"plan_ahead_timeout_ms"`
	PlanningLookaheadTicks int     `yaml:"planning_lookahead_ticks"`
	Avoidance              bool    `yaml:"avoidance"`
	AvoidanceCoefficient   float64 `yaml:"avoidance_coefficient"`
	CutoffAtLoadBoundary   bool    `yaml:"cutoff_at_load_boundary"`
	HeuristicWeight        float64 `yaml:"heuristic_weight"`
	FavorCoefficient       float64 `yaml:"favor_coefficient"`
	MovementTimeoutTicks   int     `yaml:"movement_timeout_ticks"`
	MaxDistFromPath        float64 `yaml:"max_dist_from_path"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

type ServerConfig struct {
	APIPort int `yaml:"api_port"`
}

// TracingConfig - экспорт спанов OTLP/HTTP; пустой Endpoint отключает экспорт
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	Directory string `yaml:"directory"`
}

// DefaultPathing возвращает настройки навигации по умолчанию
func DefaultPathing() Pathing {
	return Pathing{
		AllowBreak:             true,
		AllowPlace:             true,
		MaxFallHeightNoWater:   3,
		MaxFallHeightWithWater: 20,
		PathTimeoutMs:          2000,
		PlanAheadTimeoutMs:     4000,
		PlanningLookaheadTicks: 150,
		AvoidanceCoefficient:   2.0,
		HeuristicWeight:        1.0,
		FavorCoefficient:       0.5,
		MovementTimeoutTicks:   100,
		MaxDistFromPath:        2.0,
	}
}

// Default возвращает полную конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Pathing: DefaultPathing(),
		EventBus: EventBusConfig{
			Stream:    "PATHING",
			Retention: 24,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
		Tracing: TracingConfig{
			ServiceName: "voxel-pathing",
		},
	}
}

// Validate проверяет настройки навигации
func (p Pathing) Validate() error {
	switch {
	case p.MaxFallHeightNoWater < 0:
		return fmt.Errorf("max_fall_height_no_water не может быть отрицательным: %d", p.MaxFallHeightNoWater)
	case p.MaxFallHeightWithWater < p.MaxFallHeightNoWater:
		return fmt.Errorf("max_fall_height_with_water (%d) меньше max_fall_height_no_water (%d)", p.MaxFallHeightWithWater, p.MaxFallHeightNoWater)
	case p.PathTimeoutMs <= 0 || p.PlanAheadTimeoutMs <= 0:
		return fmt.Errorf("таймауты поиска должны быть положительными")
	case p.HeuristicWeight <= 0:
		return fmt.Errorf("heuristic_weight должен быть положительным: %v", p.HeuristicWeight)
	case p.FavorCoefficient <= 0 || p.FavorCoefficient > 1:
		return fmt.Errorf("favor_coefficient должен лежать в (0, 1]: %v", p.FavorCoefficient)
	case p.AvoidanceCoefficient < 1:
		return fmt.Errorf("avoidance_coefficient не может быть меньше 1: %v", p.AvoidanceCoefficient)
	case p.MaxDistFromPath <= 0:
		return fmt.Errorf("max_dist_from_path должен быть положительным: %v", p.MaxDistFromPath)
	}
	return nil
}

// GetAPIPort возвращает порт отладочного API с поддержкой fallback значений
func (s *ServerConfig) GetAPIPort() int {
	return getPortWithEnvFallback(s.APIPort, "PATHING_API_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV PATHING_CONFIG,
// иначе возвращает ErrNoConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
		if path == "" {
			return nil, ErrNoConfig
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфига %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфига %s: %w", path, err)
	}
	if err := cfg.Pathing.Validate(); err != nil {
		return nil, fmt.Errorf("конфиг %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault ведёт себя как Load, но при отсутствии конфига возвращает Default()
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrNoConfig) {
		return Default(), nil
	}
	return cfg, err
}
