package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"stress-index/pkg/logger"
)

type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber application with every dashboard route registered
func NewApp(ctl *Controller, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "stress-index",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(logger.GetLogger().WithComponent("http")))

	app.Get("/healthz", ctl.Health)

	api := app.Group("/api")
	api.Post("/refresh", ctl.Refresh)
	api.Get("/index", ctl.Index)
	api.Get("/summary", ctl.Summary)
	api.Get("/export.csv", ctl.ExportCSV)
	api.Post("/export", ctl.ExportReport)
	api.Get("/refreshes", ctl.History)
	api.Get("/refreshes/:id", ctl.Report)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":  err.Error(),
		"status": code,
	})
}

func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		entry := log.WithFields(map[string]interface{}{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   time.Since(start).String(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		})
		if status >= fiber.StatusInternalServerError {
			entry.Error("Request failed")
		} else {
			entry.Debug("Request served")
		}
		return err
	}
}
