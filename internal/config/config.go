package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	Thumbnail  Thumbnail  `yaml:"thumbnail"`
	Upload     Upload     `yaml:"upload"`
	Fetch      Fetch      `yaml:"fetch"`
	Kafka      Kafka      `yaml:"kafka"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"127.0.0.1:30243"`
	Timeout         time.Duration `yaml:"timeout" env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type Storage struct {
	FullDir   string `yaml:"full_dir" env:"STORAGE_FULL_DIR" env-default:"storage/image/fullsize"`
	ThumbDir  string `yaml:"thumb_dir" env:"STORAGE_THUMB_DIR" env-default:"storage/image/thumbnail"`
	StaticDir string `yaml:"static_dir" env:"STORAGE_STATIC_DIR" env-default:"static"`
}

type Thumbnail struct {
	Width  int `yaml:"width" env-default:"100"`
	Height int `yaml:"height" env-default:"100"`
	// Workers bounds concurrent decode/resize jobs. Zero means GOMAXPROCS.
	Workers int `yaml:"workers" env-default:"0"`
}

type Upload struct {
	// MaxItemSize is the per-part byte limit. Zero disables the limit.
	MaxItemSize int64 `yaml:"max_item_size" env:"UPLOAD_MAX_ITEM_SIZE" env-default:"33554432"`
}

type Fetch struct {
	Timeout     time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT" env-default:"30s"`
	Concurrency int           `yaml:"concurrency" env-default:"4"`
	MaxItemSize int64         `yaml:"max_item_size" env:"FETCH_MAX_ITEM_SIZE" env-default:"33554432"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"images.ingested"`
}

// Enabled reports whether event publishing is configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}

	return &cfg, nil
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
