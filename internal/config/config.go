package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Asia/Taipei"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	ClinicApi struct {
		URL            string `env:"CLINIC_API_URL"`
		Token          string `env:"CLINIC_API_TOKEN"`
		TimeoutSeconds int    `env:"CLINIC_API_TIMEOUT_SECONDS" envDefault:"10"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"booking_service:booking_service"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMq struct {
		Enabled     bool   `env:"RABBITMQ_ENABLED"`
		AmqpUri     string `env:"RABBITMQ_URL"`
		QueueConfig struct {
			AppointmentQueueName     string `env:"RABBITMQ_APPOINTMENT_QUEUE" envDefault:"clinic.booking-svc.appointment"`
			AppointmentQueueBind     string `env:"RABBITMQ_APPOINTMENT_QUEUE_BIND" envDefault:"clinic.booking-svc.appointment.*.*"`
			AppointmentQueueExchange string `env:"RABBITMQ_APPOINTMENT_QUEUE_EXCHANGE" envDefault:"clinic"`
		}
	}

	Cache struct {
		Enabled   bool `env:"CACHE_ENABLED"`
		FeedsSize int  `env:"CACHE_FEEDS_SIZE" envDefault:"500"`
	}

	Booking struct {
		// Окно бронирования: с завтрашнего дня и на WindowDays дней вперед
		WindowDays int `env:"BOOKING_WINDOW_DAYS" envDefault:"14"`
		// После этого часа нельзя менять и отменять запись на завтра
		EditCutoffHour int `env:"BOOKING_EDIT_CUTOFF_HOUR" envDefault:"21"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	location *time.Location
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Разделение клиентов basic-авторизации
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Если таймзона не загрузилась, работаем в UTC
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		loc = time.UTC
	}
	cfg.location = loc

	// Кэш без инвалидации через RabbitMQ быстро протухает, поэтому выключаем вместе
	if !cfg.RabbitMq.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) Location() *time.Location {
	return c.location
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
