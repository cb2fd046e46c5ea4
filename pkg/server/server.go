package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/zutoData/pindata-sub001/pkg/blob"
	"github.com/zutoData/pindata-sub001/pkg/config"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/service"
	"github.com/zutoData/pindata-sub001/pkg/store/sql"
)

// Launch wires the stores and the service together and runs the HTTP server
// until ctx is cancelled.
func Launch(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	blobs, err := blob.NewStoreFromURL(ctx, cfg.BlobStoreURL)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	versionStore, err := sql.NewStore(cfg.StoreURL, log)
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}

	versioningService := service.NewVersioningService(versionStore, blobs, log)

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		ReadBufferSize:        16384,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          600 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "pindata/" + cfg.Version,
		DisableStartupMessage: true,
	})

	app.Use(compress.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(logger.New(logger.Config{
		Format: "${status} - ${latency} ${method} ${path}\n",
		Output: log.Writer(),
	}))

	apiApp, err := newAPIApp(versioningService, log)
	if err != nil {
		return err
	}
	app.Mount("/api/v1", apiApp)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.SendString(cfg.Version)
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Errorf("Failed to gracefully shutdown server: %v", err)
		}
	}()

	log.Infof("versioning service listening on %s", cfg.BindAddr)

	if err := app.Listen(cfg.BindAddr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func newAPIApp(versioningService *service.VersioningService, log *logrus.Logger) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *contract.Error
			if !errors.As(err, &e) {
				code := contract.ErrorCodeInternalError

				var f *fiber.Error
				if errors.As(err, &f) {
					switch f.Code {
					case fiber.StatusBadRequest:
						code = contract.ErrorCodeBadRequest
					case fiber.StatusNotFound:
						code = contract.ErrorCodeEndpointNotFound
					}
				}

				e = contract.NewError(code, err.Error())
			}

			var fn func(format string, args ...any)

			switch e.StatusCode() {
			case fiber.StatusBadRequest, fiber.StatusConflict:
				fn = log.Infof
			case fiber.StatusServiceUnavailable:
				fn = log.Warnf
			case fiber.StatusNotFound:
				fn = log.Debugf
			default:
				fn = log.Errorf
			}

			fn("Error encountered in %s %s: %s", c.Method(), c.Path(), err)

			return c.Status(e.StatusCode()).JSON(e)
		},
	})

	parser, err := NewHTTPRequestParser()
	if err != nil {
		return nil, err
	}

	registerRoutes(app, versioningService, parser)

	return app, nil
}
