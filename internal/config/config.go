package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	HTTPPort  string    `yaml:"http-port" env:"HTTP_PORT" env-default:"4445" validate:"required,numeric"`
	CORS      CORS      `yaml:"cors"`
	Room      Room      `yaml:"room"`
	WebSocket WebSocket `yaml:"websocket"`
	Redis     Redis     `yaml:"redis"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed-origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*" validate:"min=1"`
}

type Room struct {
	IDLength   int `yaml:"id-length" env:"ROOM_ID_LENGTH" env-default:"8" validate:"min=1"`
	IDAttempts int `yaml:"id-attempts" env:"ROOM_ID_ATTEMPTS" env-default:"5" validate:"min=1"`
}

type WebSocket struct {
	SendBuffer     int           `yaml:"send-buffer" env:"WS_SEND_BUFFER" env-default:"256" validate:"min=1"`
	PingInterval   time.Duration `yaml:"ping-interval" env:"WS_PING_INTERVAL" env-default:"20s" validate:"gt=0"`
	PongWait       time.Duration `yaml:"pong-wait" env:"WS_PONG_WAIT" env-default:"30s" validate:"gtfield=PingInterval"`
	WriteWait      time.Duration `yaml:"write-wait" env:"WS_WRITE_WAIT" env-default:"10s" validate:"gt=0"`
	MaxMessageSize int64         `yaml:"max-message-size" env:"WS_MAX_MESSAGE_SIZE" env-default:"1048576" validate:"min=1"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"1h" validate:"gte=0"`
}

// MustLoad - load all configurations from the config.yml file, falling back to env when the file is absent.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
