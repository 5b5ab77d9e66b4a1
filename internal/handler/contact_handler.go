package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/accuro-ph/accuro-api/internal/dto"
	"github.com/accuro-ph/accuro-api/internal/service"
	"github.com/accuro-ph/accuro-api/internal/utils"
)

// ContactHandler handles contact submissions and their retrieval.
type ContactHandler struct {
	service     service.ContactService
	submitGuard fiber.Handler
	logger      zerolog.Logger
}

// NewContactHandler constructs a contact handler. submitGuard, when not nil,
// runs in front of the submit route only.
func NewContactHandler(service service.ContactService, submitGuard fiber.Handler, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service:     service,
		submitGuard: submitGuard,
		logger:      logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register wires contact routes.
func (h *ContactHandler) Register(router fiber.Router) {
	if h.submitGuard != nil {
		router.Post("", h.submitGuard, h.submit)
	} else {
		router.Post("", h.submit)
	}
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	var payload dto.ContactRequest
	// An empty body is validated like an empty form.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			requestLogger(h.logger, c).Debug().Err(err).Msg("contact payload rejected")
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}
	payload.IPAddress = c.IP()

	contact, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return utils.SendValidationError(c, validationErr.Fields)
		case errors.Is(err, service.ErrContactSpam):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrContactThrottled):
			return utils.SendError(c, fiber.StatusTooManyRequests, "Too many submissions, please try again later")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to save contact submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "Failed to save contact")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Contact saved successfully", contact)
}

func (h *ContactHandler) list(c *fiber.Ctx) error {
	contacts, err := h.service.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list contact submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to fetch contacts")
	}

	return utils.SendList(c, contacts)
}

func (h *ContactHandler) get(c *fiber.Ctx) error {
	contact, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Contact not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch contact submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to fetch contact")
	}

	return utils.SendSuccess(c, "", contact)
}
