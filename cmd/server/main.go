package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/scanslate/config"
	"github.com/adrianliechti/scanslate/pkg/otel"
	"github.com/adrianliechti/scanslate/pkg/pipeline"
	"github.com/adrianliechti/scanslate/server"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	path := flag.String("config", "config.yaml", "path to the configuration file")
	address := flag.String("address", "", "listen address, overrides server.address")

	flag.Parse()

	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *path, *address); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, address string) error {
	shutdown, err := otel.Setup(ctx, "scanslate", version)

	if err != nil {
		return err
	}

	defer shutdown(context.Background())

	logger := otel.Logger("scanslate")
	slog.SetDefault(logger)

	cfg, err := config.Load(path)

	if err != nil {
		return err
	}

	defer cfg.Close()

	if address != "" {
		cfg.Address = address
	}

	translator, err := cfg.Translator()

	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg.Detector, cfg.Recognizer, translator,
		pipeline.WithSource(cfg.Source),
		pipeline.WithTarget(cfg.Target),
		pipeline.WithMaxSize(cfg.MaxSize),
		pipeline.WithLogger(logger),
	)

	if err != nil {
		return err
	}

	s, err := server.New(cfg, p, version)

	if err != nil {
		return err
	}

	return s.ListenAndServe(ctx)
}
