package main

import (
	bookingsrepo "guesthouse/internal/bookings/repository"
	bookingsservice "guesthouse/internal/bookings/service"
	bookingsvalidator "guesthouse/internal/bookings/validator"
	"guesthouse/internal/foodorders/handler"
	"guesthouse/internal/foodorders/repository"
	"guesthouse/internal/foodorders/service"
	"guesthouse/internal/foodorders/validator"
	roomsrepo "guesthouse/internal/rooms/repository"
	usersrepo "guesthouse/internal/users/repository"
	"guesthouse/pkg/app"
	"guesthouse/pkg/auth"
	"guesthouse/pkg/config"
)

const ServiceName = "foodorders"

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

	cfg.Log.Info("Starting Food Orders service")
	foodOrderService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewFoodOrderHandler(foodOrderService, cfg.Log), verifier)
	serverApp.OnShutdown(verifier.Close)
	serverApp.Run()
}

// initServices builds a read-side booking service so food orders share its
// ownership rules. It never publishes events.
func initServices(cfg *config.Config) service.FoodOrderService {
	bookings := bookingsservice.NewBookingService(
		bookingsrepo.NewMongoBookingRepository(cfg),
		roomsrepo.NewMongoRoomRepository(cfg),
		usersrepo.NewMongoUserRepository(cfg),
		bookingsvalidator.NewBookingValidator(cfg.Log),
		nil,
		cfg,
	)

	foodOrderService := service.NewFoodOrderService(
		repository.NewMongoFoodOrderRepository(cfg),
		repository.NewMongoMenuRepository(cfg),
		bookings,
		validator.NewFoodOrderValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Food order service initialized", "database", cfg.MongoDatabaseName)
	return foodOrderService
}
