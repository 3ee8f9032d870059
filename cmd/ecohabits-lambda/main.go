package main

import (
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/julianstephens/ecohabits/internal/actions"
	"github.com/julianstephens/ecohabits/internal/cli"
	"github.com/julianstephens/ecohabits/internal/config"
	"github.com/julianstephens/ecohabits/internal/errors"
	"github.com/julianstephens/ecohabits/internal/lambdaapi"
	"github.com/julianstephens/ecohabits/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, JSON: true}); err != nil {
		errors.Fatal(err)
	}

	if cfg.DBConnection == "" {
		errors.Fatalf("ECOHABITS_DB_CONNECTION is required")
	}
	if cfg.JWTSecret == "" {
		errors.Fatalf("ECOHABITS_JWT_SECRET is required")
	}

	store, err := cli.OpenStore(cfg.DBConnection)
	if err != nil {
		errors.Fatal(err)
	}
	if err := store.Load(); err != nil {
		errors.Fatal(fmt.Errorf("failed to load storage: %w", err))
	}

	handler := lambdaapi.New(actions.NewFromProvider(store), cfg.TokenConfig(cfg.JWTSecret))
	logger.Info("Starting lambda handler", "storage", store.GetConfigPath())
	lambda.Start(handler.Handle)
}
