package main

import (
	"guesthouse/internal/users/handler"
	"guesthouse/internal/users/repository"
	"guesthouse/internal/users/service"
	"guesthouse/internal/users/validator"
	"guesthouse/pkg/app"
	"guesthouse/pkg/auth"
	"guesthouse/pkg/config"
	"guesthouse/pkg/sanitizer"
)

const ServiceName = "users"

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

	cfg.Log.Info("Starting Users service")
	userService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewUserHandler(userService, cfg.Log), verifier)
	serverApp.OnShutdown(verifier.Close)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.UserService {
	userValidator := validator.NewUserValidator(cfg.Log)
	userRepo := repository.NewMongoUserRepository(cfg)
	userService := service.NewUserService(
		userRepo,
		userValidator,
		sanitizer.NewPhoneNormalizer(cfg.PhoneDefaultRegions),
		cfg,
	)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userService
}
