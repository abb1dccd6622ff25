// Package api exposes statement parsing over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"fjacquet/txncat/internal/config"
	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// formOverhead is added to the file size limit to leave room for the
// multipart envelope.
const formOverhead = 64 * 1024

const shutdownTimeout = 10 * time.Second

// StatementProcessor parses one uploaded document.
type StatementProcessor interface {
	ProcessReader(name string, r io.Reader) (models.Result, error)
}

// NewApp builds the fiber application serving /upload and /health.
func NewApp(cfg *config.Config, processor StatementProcessor, logger logging.Logger) *fiber.App {
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	app := fiber.New(fiber.Config{
		AppName:               "txncat",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimitBytes() + formOverhead,
		ReadTimeout:           cfg.ReadTimeout(),
		WriteTimeout:          cfg.WriteTimeout(),
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.AllowOrigins, ","),
		AllowMethods:     strings.Join(cfg.CORS.AllowMethods, ","),
		AllowHeaders:     strings.Join(cfg.CORS.AllowHeaders, ","),
		AllowCredentials: cfg.CORS.AllowCredentials,
	}))

	h := &handler{
		processor: processor,
		maxBytes:  int64(cfg.BodyLimitBytes()),
		logger:    logger,
	}
	app.Post("/upload", h.upload)
	app.Get("/health", health)

	return app
}

// Serve listens on addr until ctx is cancelled, then shuts the app down.
func Serve(ctx context.Context, app *fiber.App, addr string, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	logger.Info("Listening", logging.F(logging.FieldAddress, addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// statusOf returns the status the error handler will send for err.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func requestLogger(logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Info("Handled request",
			logging.F(logging.FieldRequestID, requestID(c)),
			logging.F(logging.FieldMethod, c.Method()),
			logging.F(logging.FieldPath, c.Path()),
			logging.F(logging.FieldStatus, statusOf(c, err)),
			logging.F(logging.FieldRemoteAddr, c.IP()),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
		return err
	}
}

// errorHandler renders every error as {"detail": "..."}. Messages of
// unexpected errors are not exposed.
func errorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
		}

		entry := logger.WithError(err).WithFields(
			logging.F(logging.FieldRequestID, requestID(c)),
			logging.F(logging.FieldStatus, code))
		if code >= fiber.StatusInternalServerError {
			entry.Error("Request failed")
		} else {
			entry.Debug("Request rejected")
		}

		return c.Status(code).JSON(fiber.Map{"detail": detail})
	}
}
