package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"ambush/utils"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config はエージェントの起動設定です。
type Config struct {
	Addr       string
	Port       string
	AgentCount int

	ArenaWidth  float64
	ArenaHeight float64

	LogLevel       slog.Level
	HealthAddr     string
	IdleTimeout    time.Duration
	ReconnectDelay time.Duration

	OTLPEndpoint string
	ServiceName  string
}

// ServerURL はホストの WebSocket エンドポイントです。
func (c *Config) ServerURL() string {
	return fmt.Sprintf("ws://%s:%s/ws", c.Addr, c.Port)
}

// Load は .env があれば読み込んだうえで環境変数から設定を作ります。
// .env が無いことはエラーにしません。既に設定済みの環境変数は上書きされません。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	c := &Config{
		Addr:         utils.GetEnvDefault("ADDR", "localhost"),
		Port:         utils.GetEnvDefault("PORT", "9090"),
		HealthAddr:   utils.GetEnvDefault("HEALTH_ADDR", ""),
		OTLPEndpoint: utils.GetEnvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  utils.GetEnvDefault("SERVICE_NAME", "ambush"),
	}

	var err error
	if c.AgentCount, err = utils.GetEnvInt("AGENT_COUNT", 1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.AgentCount < 1 {
		return nil, fmt.Errorf("%w: AGENT_COUNT must be positive, got %d", ErrInvalidConfig, c.AgentCount)
	}

	if c.ArenaWidth, err = utils.GetEnvFloat("ARENA_WIDTH", 800); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ArenaHeight, err = utils.GetEnvFloat("ARENA_HEIGHT", 600); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	// 機体が置けない大きさのアリーナは受け付けない
	if c.ArenaWidth <= 36 || c.ArenaHeight <= 36 {
		return nil, fmt.Errorf("%w: arena %vx%v is too small", ErrInvalidConfig, c.ArenaWidth, c.ArenaHeight)
	}

	if c.IdleTimeout, err = utils.GetEnvDuration("IDLE_TIMEOUT", 30*time.Second); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ReconnectDelay, err = utils.GetEnvDuration("RECONNECT_DELAY", 2*time.Second); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.LogLevel, err = parseLevel(utils.GetEnvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("%w: LOG_LEVEL: %w", ErrInvalidConfig, err)
	}
	return c, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, err
	}
	return level, nil
}
