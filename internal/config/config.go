// Package config provides configuration loading and validation for the
// degenbot application. Values come from defaults, an optional
// config.toml file, and BOT_-prefixed environment variables; the bot
// token comes from the TELEGRAM_BOT_TOKEN secret.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all
// components of the bot.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Log       LogConfig       `mapstructure:"log"`
	Overlay   OverlayConfig   `mapstructure:"overlay"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Server    ServerConfig    `mapstructure:"server"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// TelegramConfig controls the messaging integration. Token is never
// read from the config file; it is bound to the TELEGRAM_BOT_TOKEN
// environment variable and required only when the integration is
// enabled.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token" validate:"required_if=Enabled true"`
}

// LogConfig controls log level and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// OverlayConfig controls the overlay request lifecycle and compositing.
type OverlayConfig struct {
	Expiry     time.Duration `mapstructure:"expiry" validate:"min=1s"`
	AssetsDir  string        `mapstructure:"assets_dir" validate:"required"`
	MaxRetries int           `mapstructure:"max_retries" validate:"min=1,max=10"`
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"min=1ms"`
}

// RateLimitConfig bounds how often one user may issue commands in one chat.
type RateLimitConfig struct {
	MaxRequests uint32        `mapstructure:"max_requests" validate:"min=1"`
	Window      time.Duration `mapstructure:"window" validate:"min=1s"`
}

// QueueConfig controls the photo-processing queue consumer.
type QueueConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"min=1ms"`
}

// SchedulerConfig holds the per-task scheduling settings.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a scheduled task and sets how often it runs.
type TaskConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// ServerConfig controls the HTTP redirect stub.
type ServerConfig struct {
	ListenAddr  string `mapstructure:"listen_addr" validate:"required"`
	RedirectURL string `mapstructure:"redirect_url" validate:"required,url"`
}

// MessagesConfig holds every user-visible text template. Templates with
// a %s verb are filled with the addressee.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome" validate:"required"`
	Prompt           string `mapstructure:"prompt" validate:"required"`
	PromptCancelled  string `mapstructure:"prompt_cancelled" validate:"required"`
	RateLimited      string `mapstructure:"rate_limited" validate:"required"`
	Processing       string `mapstructure:"processing" validate:"required"`
	SuccessCaption   string `mapstructure:"success_caption" validate:"required"`
	ExpiredOnPhoto   string `mapstructure:"expired_on_photo" validate:"required"`
	ExpiredBySweeper string `mapstructure:"expired_by_sweeper" validate:"required"`
	ReplyNoPhoto     string `mapstructure:"reply_no_photo" validate:"required"`
	ErrorDownload    string `mapstructure:"error_download" validate:"required"`
	ErrorDecode      string `mapstructure:"error_decode" validate:"required"`
	ErrorGeneral     string `mapstructure:"error_general" validate:"required"`
}

// TaskOverlayCleanup is the registry key of the expiry sweeper task.
const TaskOverlayCleanup = "overlay_cleanup"

// LoadConfig loads and validates configuration from:
//  1. Default values
//  2. The TOML file at path (optional)
//  3. BOT_* environment variables, plus TELEGRAM_BOT_TOKEN
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bot token comes from the secret store, never the config file.
	if err := v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token env var: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine, defaults apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.enabled", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	v.SetDefault("overlay.expiry", 3*time.Minute)
	v.SetDefault("overlay.assets_dir", "img")
	v.SetDefault("overlay.max_retries", 3)
	v.SetDefault("overlay.retry_delay", 500*time.Millisecond)

	v.SetDefault("ratelimit.max_requests", 5)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("queue.poll_interval", 100*time.Millisecond)

	v.SetDefault("scheduler.tasks."+TaskOverlayCleanup+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskOverlayCleanup+".interval", time.Minute)

	v.SetDefault("server.listen_addr", ":8000")
	v.SetDefault("server.redirect_url", "https://degenstudios.media")

	v.SetDefault("messages.welcome", "Welcome to the Degen POV bot! Use /degenme to create an overlay in any channel, group, or DM I am in!")
	v.SetDefault("messages.prompt", "Hey, %s! Please reply within 3 minutes to this message with an image to see the Degen Point of View!")
	v.SetDefault("messages.prompt_cancelled", "Previous request cancelled. ")
	v.SetDefault("messages.rate_limited", "You're sending commands too quickly. Please wait a moment before trying again.")
	v.SetDefault("messages.processing", "Making %s a degen... Please wait...")
	v.SetDefault("messages.success_caption", "Here you go %s, you degen.")
	v.SetDefault("messages.expired_on_photo", "Your overlay request has expired. Please use the /degenme command again.")
	v.SetDefault("messages.expired_by_sweeper", "%s, you degen, you forgot to send me a picture! Please run /degenme again to send an image.")
	v.SetDefault("messages.reply_no_photo", "Please reply with an image to degen.")
	v.SetDefault("messages.error_download", "Failed to download your image. Please try again.")
	v.SetDefault("messages.error_decode", "Failed to decode your image. Please try again.")
	v.SetDefault("messages.error_general", "Failed to process your image. Please try again later.")
}
