package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/zutoData/pindata-sub001/pkg/config"
	"github.com/zutoData/pindata-sub001/pkg/server"
)

var version = "dev"

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Get()
	if err != nil {
		log.Fatalf("failed to read configuration: %v", err)
	}
	cfg.Version = version

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Launch(ctx, cfg, log); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
