package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configs struct {
	Env      string
	LogLevel string
	NodeID   int64

	Database         DatabaseConfigs
	ApiServer        ServerConfigs
	PrometheusServer ServerConfigs
	Kafka            KafkaConfigs
}

type DatabaseConfigs struct {
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	SSLMode  string
	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host,
			d.Port,
			d.User,
			d.Password,
			d.Database,
			d.SSLMode,
		)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User,
			d.Password,
			d.Host,
			d.Port,
			d.Database,
		)
	}
}

type ServerConfigs struct {
	Host           string
	Port           string
	AllowedOrigins []string
	MaxLimit       int
	DefaultLimit   int
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type KafkaConfigs struct {
	Enabled  bool
	Addr     string
	ClientID string
}

func (c KafkaConfigs) Brokers() []string {
	return strings.Split(c.Addr, ",")
}

// Load reads configs from config.yaml (optional), the .env file (optional)
// and the process environment, in increasing priority.
func Load() (*Configs, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Configs
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Env", "local")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("NodeID", 1)

	v.SetDefault("Database.Driver", "mysql")
	v.SetDefault("Database.Host", "localhost")
	v.SetDefault("Database.Port", "3306")
	v.SetDefault("Database.Database", "radiodraw")
	v.SetDefault("Database.User", "root")
	v.SetDefault("Database.Password", "")
	v.SetDefault("Database.SSLMode", "disable")
	v.SetDefault("Database.LogLevel", "error")

	v.SetDefault("ApiServer.Host", "")
	v.SetDefault("ApiServer.Port", "8080")
	v.SetDefault("ApiServer.AllowedOrigins", []string{"*"})
	v.SetDefault("ApiServer.MaxLimit", 100)
	v.SetDefault("ApiServer.DefaultLimit", 20)

	v.SetDefault("PrometheusServer.Host", "")
	v.SetDefault("PrometheusServer.Port", "9090")

	v.SetDefault("Kafka.Enabled", false)
	v.SetDefault("Kafka.Addr", "localhost:9092")
	v.SetDefault("Kafka.ClientID", "radiodraw")
}
