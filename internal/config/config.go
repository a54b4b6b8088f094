package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	Whisper  WhisperConfig
	Media    MediaConfig
	Logger   LoggerConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// OpenAIConfig points the completion client at any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type WhisperConfig struct {
	// Model is one of tiny, base, small, medium, large.
	Model  string
	Binary string
}

type MediaConfig struct {
	TempDir            string
	YTDLPBinary        string
	MaxTranscriptChars int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type CORSConfig struct {
	AllowedOrigins string
}

// WhisperModels is the fixed set of transcription model sizes, trading
// accuracy for resource cost.
var WhisperModels = []string{"tiny", "base", "small", "medium", "large"}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; env vars and defaults can carry the full surface.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("database.dsn"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       viper.GetString("jwt.secret_key"),
			AccessTokenTTL:  viper.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: viper.GetDuration("jwt.refresh_token_ttl"),
		},
		OpenAI: OpenAIConfig{
			Endpoint: viper.GetString("openai.endpoint"),
			APIKey:   viper.GetString("openai.api_key"),
			Model:    viper.GetString("openai.model"),
			Timeout:  viper.GetDuration("openai.timeout"),
		},
		Whisper: WhisperConfig{
			Model:  viper.GetString("whisper.model"),
			Binary: viper.GetString("whisper.binary"),
		},
		Media: MediaConfig{
			TempDir:            viper.GetString("media.temp_dir"),
			YTDLPBinary:        viper.GetString("media.ytdlp_binary"),
			MaxTranscriptChars: viper.GetInt("media.max_transcript_chars"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetString("cors.allowed_origins"),
		},
	}

	// Environment variable overrides for deployment
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		config.Redis.Address = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if endpoint := os.Getenv("OPENAI_ENDPOINT"); endpoint != "" {
		config.OpenAI.Endpoint = endpoint
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.OpenAI.Model = model
	}
	if model := os.Getenv("WHISPER_MODEL"); model != "" {
		config.Whisper.Model = model
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = viper.GetInt("SERVER_PORT")
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 600)
	viper.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	viper.SetDefault("jwt.refresh_token_ttl", 7*24*time.Hour)
	viper.SetDefault("openai.timeout", 120*time.Second)
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("whisper.model", "small")
	viper.SetDefault("whisper.binary", "whisper")
	viper.SetDefault("media.temp_dir", os.TempDir())
	viper.SetDefault("media.ytdlp_binary", "yt-dlp")
	viper.SetDefault("media.max_transcript_chars", 24000)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("cors.allowed_origins", "*")
}

func (c *Config) validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is not configured")
	}
	if len(c.JWT.SecretKey) < 32 {
		return fmt.Errorf("jwt.secret_key must be at least 32 bytes long")
	}
	valid := false
	for _, m := range WhisperModels {
		if c.Whisper.Model == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("whisper.model must be one of %v, got %q", WhisperModels, c.Whisper.Model)
	}
	return nil
}
