package main

import (
	"guesthouse/internal/bookings/events"
	"guesthouse/internal/bookings/handler"
	"guesthouse/internal/bookings/repository"
	"guesthouse/internal/bookings/service"
	"guesthouse/internal/bookings/validator"
	roomsrepo "guesthouse/internal/rooms/repository"
	usersrepo "guesthouse/internal/users/repository"
	"guesthouse/pkg/app"
	"guesthouse/pkg/auth"
	"guesthouse/pkg/config"
	"guesthouse/pkg/kafka"
	kafka_config "guesthouse/pkg/kafka/config"
	kafka_middleware "guesthouse/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.SetMongo()
	cfg.SetRedis()

	verifier, err := auth.NewVerifier(cfg.AuthOptions(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize token verifier", "error", err)
	}

	serverApp := app.NewApplication(cfg)

	var publisher service.EventPublisher
	if producer := initProducer(cfg); producer != nil {
		publisher = events.NewKafkaPublisher(producer, ServiceName)
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
	}

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg, publisher)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log), verifier)
	serverApp.OnShutdown(verifier.Close)
	serverApp.Run()
}

// initProducer returns nil when event publishing is switched off.
func initProducer(cfg *config.Config) *kafka.Producer {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}
	return producer
}

func initServices(cfg *config.Config, publisher service.EventPublisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		roomsrepo.NewMongoRoomRepository(cfg),
		usersrepo.NewMongoUserRepository(cfg),
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName, "events", publisher != nil)
	return bookingService
}
