package httpapi

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/sixtyseconds/internal/config"
	"github.com/i474232898/sixtyseconds/internal/plugin"
)

var validate = validator.New()

// fetchTimeout bounds fetches started from an HTTP request.
const fetchTimeout = 30 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// saver persists settings submitted through PUT /settings; it may be nil.
func RegisterRoutes(app *fiber.App, p *plugin.Plugin, saver plugin.SettingsSaver) {
	v1 := app.Group("/api/v1")

	v1.Get("/sixty_seconds", func(c *fiber.Ctx) error {
		snap, ok := p.Data()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no digest fetched yet")
		}
		return c.JSON(snap)
	})

	v1.Get("/page", func(c *fiber.Ctx) error {
		return c.JSON(p.Page())
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		dash, ok := p.Dashboard()
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(dash)
	})

	v1.Get("/form", func(c *fiber.Ctx) error {
		form, model := p.Form()
		return c.JSON(fiber.Map{
			"form":  form,
			"model": model,
		})
	})

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(p.Status())
	})

	v1.Get("/commands", func(c *fiber.Ctx) error {
		return c.JSON(p.Commands())
	})

	v1.Post("/command", func(c *fiber.Ctx) error {
		var req commandRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid command body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), fetchTimeout)
		defer cancel()

		handled, ok := p.HandleCommand(ctx, req.Cmd)
		if !handled {
			return fiber.NewError(fiber.StatusNotFound, "unknown command")
		}
		return c.JSON(triggerResponse{Success: ok})
	})

	v1.Post("/events", func(c *fiber.Ctx) error {
		var ev plugin.Event
		if err := c.BodyParser(&ev); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid event body")
		}
		if err := validate.Struct(ev); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), fetchTimeout)
		defer cancel()

		handled, ok := p.HandleEvent(ctx, ev)
		if !handled {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"ignored": true})
		}
		return c.JSON(triggerResponse{Success: ok})
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(p.Settings())
	})

	v1.Put("/settings", func(c *fiber.Ctx) error {
		settings := config.DefaultSettings()
		if err := c.BodyParser(&settings); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid settings body")
		}
		if err := validate.Struct(settings); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if saver != nil {
			if err := saver.Save(settings); err != nil {
				log.WithField("component", "api").WithError(err).Error("failed to persist settings")
				return fiber.NewError(fiber.StatusInternalServerError, "failed to persist settings")
			}
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), fetchTimeout)
		defer cancel()
		p.Init(ctx, settings)

		return c.JSON(settingsResponse{
			Settings: p.Settings(),
			Warning:  p.Status().CronError,
		})
	})
}

// commandRequest is the body of POST /command.
type commandRequest struct {
	Cmd string `json:"cmd" validate:"required,startswith=/"`
}

type triggerResponse struct {
	Success bool `json:"success"`
}

type settingsResponse struct {
	Settings config.Settings `json:"settings"`
	Warning  string          `json:"warning,omitempty"`
}
