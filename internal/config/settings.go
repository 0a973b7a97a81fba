package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	BodyLimitMB    int      `mapstructure:"bodyLimitMB"`
}

type DBConfig struct {
	// memory or mysql
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	Pass string `mapstructure:"pass"`
	DB   int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwtSecret"`
	TokenTTLHours int    `mapstructure:"tokenTTLHours"`
	// StaticToken is accepted for StaticUserID when set
	StaticToken  string `mapstructure:"staticToken"`
	StaticUserID string `mapstructure:"staticUserID"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

type EngineConfig struct {
	// genai or generative-ai
	Provider       string  `mapstructure:"provider"`
	APIKey         string  `mapstructure:"apiKey"`
	Model          string  `mapstructure:"model"`
	Temperature    float32 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeoutSeconds"`
}

func (e EngineConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

type CreditsConfig struct {
	SignupMinutes int `mapstructure:"signupMinutes"`
	TopUpMinutes  int `mapstructure:"topUpMinutes"`
}

type RateLimitConfig struct {
	// memory or redis
	Store  string        `mapstructure:"store"`
	Window time.Duration `mapstructure:"window"`
	Max    int           `mapstructure:"max"`
}

type Settings struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Credits   CreditsConfig   `mapstructure:"credits"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Env       string          `mapstructure:"env"`
	Debug     bool            `mapstructure:"debug" default:"false"`
}

func (s Settings) Addr() string {
	return fmt.Sprintf(":%d", s.Server.Port)
}

// Load reads config_<ENV>.yaml from AUDIOSCRIBE_CONFIG_DIR (or the working
// directory) with AUDIOSCRIBE_* environment overrides.
func Load() (*Settings, error) {
	dir := os.Getenv("AUDIOSCRIBE_CONFIG_DIR")
	if dir == "" {
		dir = "."
	}
	return LoadFrom(dir)
}

func LoadFrom(dir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUDIOSCRIBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config_" + genEnv(v))
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if settings.Env == "" {
		settings.Env = genEnv(v)
	}

	return &settings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("server.bodyLimitMB", 50)

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "audioscribe")
	v.SetDefault("database.pool_size", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pass", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenTTLHours", 24)
	v.SetDefault("auth.staticToken", "")
	v.SetDefault("auth.staticUserID", "user_01")

	v.SetDefault("engine.provider", "genai")
	v.SetDefault("engine.apiKey", "")
	v.SetDefault("engine.model", "gemini-3-flash-preview")
	v.SetDefault("engine.temperature", 0.1)
	v.SetDefault("engine.timeoutSeconds", 300)

	v.SetDefault("credits.signupMinutes", 60)
	v.SetDefault("credits.topUpMinutes", 500)

	v.SetDefault("rateLimit.store", "memory")
	v.SetDefault("rateLimit.window", 15*time.Minute)
	v.SetDefault("rateLimit.max", 100)

	v.SetDefault("debug", false)
}

func genEnv(v *viper.Viper) string {
	env := v.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
