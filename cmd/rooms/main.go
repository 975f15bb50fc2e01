package main

import (
	bookingsrepo "guesthouse/internal/bookings/repository"
	"guesthouse/internal/rooms/handler"
	"guesthouse/internal/rooms/repository"
	"guesthouse/internal/rooms/service"
	"guesthouse/pkg/app"
	"guesthouse/pkg/auth"
	"guesthouse/pkg/cache"
	"guesthouse/pkg/config"
)

const ServiceName = "rooms"

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

	cfg.Log.Info("Starting Rooms service")
	roomService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewRoomHandler(roomService, cfg.Log), verifier)
	serverApp.OnShutdown(verifier.Close)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.RoomService {
	roomCache := cache.Noop()
	if cfg.Client.Redis != nil {
		roomCache = cache.NewRedisCache(cfg.Client.Redis, "rooms:", cfg.RoomCacheTTL)
	}

	roomRepo := repository.NewCachedRoomRepository(repository.NewMongoRoomRepository(cfg), roomCache, cfg.Log)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	roomService := service.NewRoomService(roomRepo, bookingRepo, cfg)

	cfg.Log.Info("Room service initialized", "database", cfg.MongoDatabaseName, "cache", cfg.Client.Redis != nil)
	return roomService
}
