package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/IdanZeman/fit-nutrition-web/internal/models"
	"github.com/IdanZeman/fit-nutrition-web/internal/wizard"
)

type answersSubmitter interface {
	SubmitAnswers(ctx context.Context, ident models.Identity, answers map[string]string) error
}

// WizardHandler exposes the questionnaire state machine over HTTP: one
// wizard instance per authenticated user, one visible step at a time.
type WizardHandler struct {
	wizards  *wizard.Manager
	userRepo identityStore
	profiles answersSubmitter
}

func NewWizardHandler(wizards *wizard.Manager, userRepo identityStore, profiles answersSubmitter) *WizardHandler {
	return &WizardHandler{
		wizards:  wizards,
		userRepo: userRepo,
		profiles: profiles,
	}
}

type setAnswerRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *WizardHandler) GetState(c *fiber.Ctx) error {
	w, _, err := h.wizardForRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	return c.JSON(w.CurrentStep())
}

func (h *WizardHandler) SetAnswer(c *fiber.Ctx) error {
	w, _, err := h.wizardForRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req setAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := w.SetAnswer(req.Field, req.Value); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(w.CurrentStep())
}

func (h *WizardHandler) Next(c *fiber.Ctx) error {
	w, _, err := h.wizardForRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	w.Advance()
	return c.JSON(w.CurrentStep())
}

func (h *WizardHandler) Back(c *fiber.Ctx) error {
	w, _, err := h.wizardForRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	w.Retreat()
	return c.JSON(w.CurrentStep())
}

func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	w, userID, err := h.wizardForRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
	}
	ident := identity(user)

	w.Submit(c.Context(), func(ctx context.Context, answers map[string]string) error {
		return h.profiles.SubmitAnswers(ctx, ident, answers)
	})

	view := w.CurrentStep()
	resp := fiber.Map{"state": view}
	if redirect := w.Redirect(); redirect != nil {
		resp["redirect"] = fiber.Map{
			"to":       redirect.To,
			"after_ms": redirect.After.Milliseconds(),
		}
		// Successful submission retires the instance; the next visit
		// starts a fresh wizard.
		h.wizards.Remove(ident.UID)
	}
	return c.JSON(resp)
}

func (h *WizardHandler) wizardForRequest(c *fiber.Ctx) (*wizard.Wizard, int64, error) {
	userID, err := parseUserID(c)
	if err != nil {
		return nil, 0, err
	}
	uid, _ := c.Locals("user_id").(string)
	return h.wizards.Get(uid), userID, nil
}
