package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/klauspost/compress/zlib"
	"gopkg.in/yaml.v3"

	"github.com/Versifine/mclink/internal/client"
	"github.com/Versifine/mclink/internal/packet"
	"github.com/Versifine/mclink/internal/protocol"
)

const (
	DefaultPort        = 25565
	DefaultDialTimeout = 10 // seconds

	EnvServer      = "MCLINK_SERVER"
	EnvUsername    = "MCLINK_USERNAME"
	EnvAccessToken = "MCLINK_ACCESS_TOKEN"
	EnvProfileID   = "MCLINK_PROFILE_ID"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Account    AccountConfig    `yaml:"account" toml:"account"`
	Connection ConnectionConfig `yaml:"connection" toml:"connection"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" toml:"metrics"`
}

type ServerConfig struct {
	Host            string `yaml:"host" toml:"host"`
	Port            int    `yaml:"port" toml:"port"`
	ProtocolVersion int32  `yaml:"protocol_version" toml:"protocol_version"`
}

// AccountConfig is usually filled from the environment so that tokens stay
// out of config files.
type AccountConfig struct {
	Username    string `yaml:"username" toml:"username"`
	AccessToken string `yaml:"access_token" toml:"access_token"`
	ProfileID   string `yaml:"profile_id" toml:"profile_id"`
}

type ConnectionConfig struct {
	AutoRespond        *bool `yaml:"auto_respond" toml:"auto_respond"`
	DialTimeout        int   `yaml:"dial_timeout" toml:"dial_timeout"` // seconds
	MaxFrameLen        int   `yaml:"max_frame_len" toml:"max_frame_len"`
	MaxUncompressedLen int   `yaml:"max_uncompressed_len" toml:"max_uncompressed_len"`
	CompressionLevel   *int  `yaml:"compression_level" toml:"compression_level"` // unset means zlib default
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen" toml:"listen"` // empty disables the endpoint
}

// Load reads a YAML or TOML file (chosen by extension), applies the .env
// file next to it and MCLINK_* environment variables, then validates.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}

	env, err := readEnv(filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv builds a config from defaults, a .env file in the working
// directory and MCLINK_* environment variables only.
func LoadEnv() (*Config, error) {
	cfg := &Config{}
	env, err := readEnv(".env")
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readEnv merges the optional .env file with the process environment. Process
// variables win.
func readEnv(dotenv string) (map[string]string, error) {
	env := map[string]string{}
	if _, err := os.Stat(dotenv); err == nil {
		if env, err = godotenv.Read(dotenv); err != nil {
			return nil, fmt.Errorf("read %s: %w", dotenv, err)
		}
	}
	for _, key := range []string{EnvServer, EnvUsername, EnvAccessToken, EnvProfileID} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	if v := env[EnvServer]; v != "" {
		if err := c.SetServer(v); err != nil {
			return fmt.Errorf("%s: %w", EnvServer, err)
		}
	}
	if v := env[EnvUsername]; v != "" {
		c.Account.Username = v
	}
	if v := env[EnvAccessToken]; v != "" {
		c.Account.AccessToken = v
	}
	if v := env[EnvProfileID]; v != "" {
		c.Account.ProfileID = v
	}
	return nil
}

// SetServer replaces the server with "host" or "host:port". A missing port
// means the default one.
func (c *Config) SetServer(addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		host, portStr = addr, strconv.Itoa(DefaultPort)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || host == "" {
		return fmt.Errorf("%w: server address %q", ErrInvalidConfig, addr)
	}
	c.Server.Host, c.Server.Port = host, port
	return nil
}

// Validate fills defaults and rejects values the client cannot use.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.ProtocolVersion == 0 {
		c.Server.ProtocolVersion = packet.ProtocolVersion
	}
	if c.Server.ProtocolVersion != packet.ProtocolVersion {
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, packet.ErrUnsupportedProtocol, c.Server.ProtocolVersion)
	}
	if c.Account.ProfileID != "" {
		if _, err := uuid.Parse(c.Account.ProfileID); err != nil {
			return fmt.Errorf("%w: profile id: %w", ErrInvalidConfig, err)
		}
	}
	if c.Connection.DialTimeout <= 0 {
		c.Connection.DialTimeout = DefaultDialTimeout
	}
	if lvl := c.Connection.CompressionLevel; lvl != nil && (*lvl < zlib.HuffmanOnly || *lvl > zlib.BestCompression) {
		return fmt.Errorf("%w: compression level %d", ErrInvalidConfig, *lvl)
	}
	if c.Connection.AutoRespond == nil {
		on := true
		c.Connection.AutoRespond = &on
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "auto"
	}
	return nil
}

// Address returns host:port, or an error when no host is configured.
func (c *Config) Address() (string, error) {
	if c.Server.Host == "" {
		return "", fmt.Errorf("%w: server host is required", ErrInvalidConfig)
	}
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port)), nil
}

// ClientConfig converts the file settings into a client.Config.
func (c *Config) ClientConfig() (client.Config, error) {
	addr, err := c.Address()
	if err != nil {
		return client.Config{}, err
	}
	var profile uuid.UUID
	if c.Account.ProfileID != "" {
		if profile, err = uuid.Parse(c.Account.ProfileID); err != nil {
			return client.Config{}, fmt.Errorf("%w: profile id: %w", ErrInvalidConfig, err)
		}
	}
	autoRespond := true
	if c.Connection.AutoRespond != nil {
		autoRespond = *c.Connection.AutoRespond
	}
	return client.Config{
		Address:     addr,
		Username:    c.Account.Username,
		AccessToken: c.Account.AccessToken,
		ProfileID:   profile,
		AutoRespond: autoRespond,
		DialTimeout: time.Duration(c.Connection.DialTimeout) * time.Second,
		Frame: protocol.FrameConfig{
			MaxFrameLen:        c.Connection.MaxFrameLen,
			MaxUncompressedLen: c.Connection.MaxUncompressedLen,
			CompressionLevel:   c.Connection.CompressionLevel,
		},
	}, nil
}
