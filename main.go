package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Akhalfstar/Realeaste-bakend/config"
	"github.com/Akhalfstar/Realeaste-bakend/handlers"
	"github.com/Akhalfstar/Realeaste-bakend/routes"
	"github.com/Akhalfstar/Realeaste-bakend/storage"
	"github.com/Akhalfstar/Realeaste-bakend/utils"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Disconnect(context.Background())

	cache := utils.NewCache(cfg)

	tokens, err := utils.NewTokenManager(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	imageStore, err := storage.NewImageStore(context.Background(), cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image store")
	}
	images := storage.NewCoordinator(imageStore, log.Logger)

	ctrl := routes.Controllers{
		Property: handlers.NewPropertyController(db.GetCollection("properties"), images, cache, log.Logger),
		User:     handlers.NewUserController(db.GetCollection("users"), tokens),
		Like:     handlers.NewLikeController(db.GetCollection("likes")),
		Admin:    handlers.NewAdminController(db.GetCollection("users")),
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	routes.RegisterRoutes(e, ctrl, tokens)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
