package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

var (
	ErrUnknownDriver          = errors.New("unknown storage driver")
	ErrInvalidShortCodeLength = errors.New("short code length out of range")
)

type Config struct {
	Env        string `yaml:"env"`
	Registry   `yaml:"registry"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Audit      `yaml:"audit"`
}

type Registry struct {
	ShortCodeLength       int           `yaml:"short_code_length"`
	MaxGenerationAttempts int           `yaml:"max_generation_attempts"`
	DefaultValidity       time.Duration `yaml:"default_validity"`
	MaxBatchSize          int           `yaml:"max_batch_size"`
}

var defaultRegistry = Registry{
	ShortCodeLength:       6,
	MaxGenerationAttempts: 10,
	DefaultValidity:       30 * time.Minute,
	MaxBatchSize:          5,
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Storage selects the persistence backend of the registry.
type Storage struct {
	Driver   string   `yaml:"driver"`
	File     File     `yaml:"file"`
	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
}

type File struct {
	Path string `yaml:"path"`
}

var defaultFile = File{
	Path: "./data/registry.json",
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnectTimeout:  5 * time.Second,
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type Redis struct {
	URL          string        `yaml:"url"`
	Key          string        `yaml:"key"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PoolSize     int           `yaml:"pool_size"`
}

var defaultRedis = Redis{
	URL:          "redis://localhost:6379/0",
	Key:          "shortlink-registry:records",
	DialTimeout:  5 * time.Second,
	ReadTimeout:  3 * time.Second,
	WriteTimeout: 3 * time.Second,
	PoolSize:     10,
}

// Audit configures the telemetry sink. Events go to the local log when Endpoint is empty.
type Audit struct {
	Endpoint   string        `yaml:"endpoint"`
	Token      string        `yaml:"token"`
	Stack      string        `yaml:"stack"`
	BufferSize int           `yaml:"buffer_size"`
	Timeout    time.Duration `yaml:"timeout"`
}

var defaultAudit = Audit{
	Stack:      "backend",
	BufferSize: 256,
	Timeout:    5 * time.Second,
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	switch cfg.Storage.Driver {
	case DriverMemory, DriverFile, DriverPostgres, DriverRedis:
	default:
		return nil, fmt.Errorf("%s: %q: %w", op, cfg.Storage.Driver, ErrUnknownDriver)
	}

	if n := cfg.Registry.ShortCodeLength; n < 1 || n > entity.MaxShortCodeLength {
		return nil, fmt.Errorf("%s: %d not in 1..%d: %w", op, n, entity.MaxShortCodeLength, ErrInvalidShortCodeLength)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.Registry = defaultRegistry
	cfg.HTTPServer = defaultHTTPServer
	cfg.Storage = Storage{
		Driver:   DriverMemory,
		File:     defaultFile,
		Postgres: defaultPostgres,
		Redis:    defaultRedis,
	}
	cfg.Audit = defaultAudit
}
