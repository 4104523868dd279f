package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Targets TargetsConfig
	Order   OrderConfig
	Runtime RuntimeConfig
}

// TargetsConfig holds the limits of the take-profit target engine.
type TargetsConfig struct {
	MaxTargets     int     `mapstructure:"max_targets" validate:"min=1,max=5"`
	ProfitStep     float64 `mapstructure:"profit_step" validate:"gt=0"`
	FirstAmount    float64 `mapstructure:"first_amount" validate:"gt=0,lte=100"`
	NextAmount     float64 `mapstructure:"next_amount" validate:"gt=0,lte=100"`
	MinProfit      float64 `mapstructure:"min_profit"`
	MaxProfitSum   float64 `mapstructure:"max_profit_sum" validate:"gt=0"`
	MaxAmountSum   float64 `mapstructure:"max_amount_sum" validate:"gt=0"`
	MinProfitBound float64 `mapstructure:"min_profit_bound" validate:"lt=0"`
}

// OrderConfig is the parent order scenario fed to the CLI.
type OrderConfig struct {
	Side    string         `mapstructure:"side" validate:"omitempty,oneof=buy sell"`
	Price   string         `mapstructure:"price" validate:"omitempty,decimal"`
	Amount  string         `mapstructure:"amount" validate:"omitempty,decimal"`
	Total   string         `mapstructure:"total" validate:"omitempty,decimal"`
	Targets []TargetConfig `mapstructure:"targets" validate:"max=5,dive"`
}

type TargetConfig struct {
	Profit string `mapstructure:"profit" validate:"omitempty,decimal"`
	Price  string `mapstructure:"price" validate:"omitempty,decimal"`
	Amount string `mapstructure:"amount" validate:"omitempty,decimal"`
}

type RuntimeConfig struct {
	Report string `mapstructure:"report" validate:"omitempty,oneof=console yaml"`
	Log    LogConfig
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error fatal panic"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

func Default() *Config {
	return &Config{
		Targets: TargetsConfig{
			MaxTargets:     5,
			ProfitStep:     2,
			FirstAmount:    100,
			NextAmount:     20,
			MinProfit:      0.01,
			MaxProfitSum:   500,
			MaxAmountSum:   100,
			MinProfitBound: -100,
		},
		Order: OrderConfig{
			Side: "buy",
		},
		Runtime: RuntimeConfig{
			Report: "console",
			Log: LogConfig{
				Level:  "info",
				Format: "text",
				File:   "stdout",
			},
		},
	}
}

func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads the given file, or configs/config.yaml when path is empty.
// A missing default file is not an error; defaults apply.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Targets = TargetsConfig{
		MaxTargets:     v.GetInt("targets.max_targets"),
		ProfitStep:     v.GetFloat64("targets.profit_step"),
		FirstAmount:    v.GetFloat64("targets.first_amount"),
		NextAmount:     v.GetFloat64("targets.next_amount"),
		MinProfit:      v.GetFloat64("targets.min_profit"),
		MaxProfitSum:   v.GetFloat64("targets.max_profit_sum"),
		MaxAmountSum:   v.GetFloat64("targets.max_amount_sum"),
		MinProfitBound: v.GetFloat64("targets.min_profit_bound"),
	}

	cfg.Order = OrderConfig{
		Side:   strings.ToLower(envSub(v, "order.side")),
		Price:  envSub(v, "order.price"),
		Amount: envSub(v, "order.amount"),
		Total:  envSub(v, "order.total"),
	}
	if err := v.UnmarshalKey("order.targets", &cfg.Order.Targets); err != nil {
		return nil, fmt.Errorf("decode order targets: %w", err)
	}

	cfg.Runtime = RuntimeConfig{
		Report: strings.ToLower(v.GetString("runtime.report")),
		Log: LogConfig{
			Level:      v.GetString("runtime.log.level"),
			Format:     v.GetString("runtime.log.format"),
			File:       envSub(v, "runtime.log.file"),
			MaxSize:    v.GetInt("runtime.log.max_size"),
			MaxBackups: v.GetInt("runtime.log.max_backups"),
			MaxAge:     v.GetInt("runtime.log.max_age"),
			Compress:   v.GetBool("runtime.log.compress"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("targets.max_targets", def.Targets.MaxTargets)
	v.SetDefault("targets.profit_step", def.Targets.ProfitStep)
	v.SetDefault("targets.first_amount", def.Targets.FirstAmount)
	v.SetDefault("targets.next_amount", def.Targets.NextAmount)
	v.SetDefault("targets.min_profit", def.Targets.MinProfit)
	v.SetDefault("targets.max_profit_sum", def.Targets.MaxProfitSum)
	v.SetDefault("targets.max_amount_sum", def.Targets.MaxAmountSum)
	v.SetDefault("targets.min_profit_bound", def.Targets.MinProfitBound)
	v.SetDefault("order.side", def.Order.Side)
	v.SetDefault("runtime.report", def.Runtime.Report)
	v.SetDefault("runtime.log.level", def.Runtime.Log.Level)
	v.SetDefault("runtime.log.format", def.Runtime.Log.Format)
	v.SetDefault("runtime.log.file", def.Runtime.Log.File)
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("decimal", isDecimal); err != nil {
		return fmt.Errorf("register decimal validation: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

var envPattern = regexp.MustCompile(`\$\{(\w+)\}`)

func envSub(v *viper.Viper, key string) string {
	val := v.GetString(key)
	if val == "" {
		return ""
	}

	return envPattern.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}
