package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type BotConfig struct {
	Token string `mapstructure:"token"`
	// LogToDiscord mirrors the journal writes into the guild's log channels.
	LogToDiscord bool `mapstructure:"log_to_discord"`
	// LogChannelsPath is the JSON document mapping log categories to channel ids.
	LogChannelsPath string `mapstructure:"log_channels_path"`
}

type DashboardConfig struct {
	Port         int    `mapstructure:"port"`
	TemplateGlob string `mapstructure:"template_glob"`
	Mode         string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// LoadConfig reads config.toml (optional) and the environment. A .env file in
// the working directory is loaded first so BOT_TOKEN and friends can live there.
func LoadConfig(path string) (*Config, error) {
	// Best effort: a missing .env just means the variables come from the shell.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("bot.log_to_discord", false)
	v.SetDefault("bot.log_channels_path", "log_channels.json")
	v.SetDefault("dashboard.port", 8080)
	v.SetDefault("dashboard.template_glob", "web/templates/*.html")
	v.SetDefault("dashboard.mode", "release")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.dbname", "discord_logger")
	v.SetDefault("postgres.max_idle_conns", 2)
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	// Environment always wins over the file.
	_ = v.BindEnv("bot.token", "BOT_TOKEN")
	_ = v.BindEnv("bot.log_to_discord", "LOG_TO_DISCORD")
	_ = v.BindEnv("dashboard.port", "DASHBOARD_PORT")
	_ = v.BindEnv("postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("postgres.dbname", "POSTGRES_DBNAME")

	if err := v.ReadInConfig(); err != nil {
		// The file is optional; everything can come from the environment.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return errors.New("BOT_TOKEN is missing or empty")
	}
	if c.Dashboard.Port < 0 || c.Dashboard.Port > 65535 {
		return fmt.Errorf("%d is not a valid port number (out of range)", c.Dashboard.Port)
	}
	return nil
}
