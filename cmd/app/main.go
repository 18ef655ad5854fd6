package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	inhttp "github.com/suchimauz/clinic-booking-service/internal/adapters/in/http"
	"github.com/suchimauz/clinic-booking-service/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/clinic-booking-service/internal/adapters/out/cache"
	"github.com/suchimauz/clinic-booking-service/internal/adapters/out/clinicapi"
	"github.com/suchimauz/clinic-booking-service/internal/adapters/out/logger"
	"github.com/suchimauz/clinic-booking-service/internal/config"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
	"github.com/suchimauz/clinic-booking-service/internal/core/services/booking_service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone, cfg.Log.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMq.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	clinicApiAdapter := clinicapi.NewClinicApiAdapter(cfg, mainLogger.WithModule("ClinicApiAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервиса
	bookingService := booking_service.NewBookingService(
		clinicApiAdapter,
		cacheAdapter,
		cfg,
		mainLogger.WithModule("BookingService"),
	)

	// Настройка HTTP сервера
	router := gin.Default()
	controller := inhttp.NewBookingController(bookingService, cfg)
	controller.RegisterRoutes(router)

	// Слушатель событий о записях, только если RabbitMQ включен
	if cfg.RabbitMq.Enabled {
		listener, err := rabbitmq.NewAppointmentListener(
			bookingService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
