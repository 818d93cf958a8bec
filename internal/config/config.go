package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Deck      DeckConfig      `mapstructure:"deck"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

// DeckConfig locates the flat tables and the attachment directory.
type DeckConfig struct {
	QuestionsFile   string `mapstructure:"questions_file"`
	HistoryFile     string `mapstructure:"history_file"`
	ImagesDirectory string `mapstructure:"images_directory"`
}

// SchedulerConfig points at an optional transition policy file. When
// empty, the built-in table is used.
type SchedulerConfig struct {
	PolicyFile string `mapstructure:"policy_file" validate:"omitempty,file"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/quizdeck")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("deck.questions_file", "questions.csv")
	v.SetDefault("deck.history_file", "history.csv")
	v.SetDefault("deck.images_directory", "images")
	v.SetDefault("scheduler.policy_file", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "quizdeck")
	v.SetDefault("database.username", "user")

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	resolvePaths(&cfg)
	return &cfg, nil
}

// resolvePaths keeps relative table paths relative to the working
// directory, the way the deck files travel with the deck.
func resolvePaths(cfg *Config) {
	cfg.Deck.QuestionsFile = filepath.Clean(cfg.Deck.QuestionsFile)
	cfg.Deck.HistoryFile = filepath.Clean(cfg.Deck.HistoryFile)
	cfg.Deck.ImagesDirectory = filepath.Clean(cfg.Deck.ImagesDirectory)
}
