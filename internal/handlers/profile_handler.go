package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/IdanZeman/fit-nutrition-web/internal/models"
	"github.com/IdanZeman/fit-nutrition-web/internal/repository"
	"github.com/IdanZeman/fit-nutrition-web/internal/services"
)

type profileStore interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	UpdatePartial(ctx context.Context, uid string, input services.UpdateProfileInput) (*models.UserProfile, error)
}

// ProfileHandler serves the profile-editing view: read the stored document,
// merge-update individual fields.
type ProfileHandler struct {
	profiles profileStore
}

func NewProfileHandler(profiles profileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type updateProfileRequest struct {
	HeightCM           *float64 `json:"height"`
	WeightKG           *float64 `json:"weight"`
	Age                *int     `json:"age"`
	Gender             *string  `json:"gender"`
	WeeklyRunFrequency *string  `json:"weekly_run_frequency"`
	RunningPaceSec     *int     `json:"running_pace_sec"`
	ExerciseTime       *string  `json:"exercise_time"`
	CoffeeIntake       *string  `json:"coffee_intake"`
	WeightGoalKG       *float64 `json:"weight_goal"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profiles.Get(c.Context(), strconv.FormatInt(userID, 10))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.profiles.UpdatePartial(c.Context(), strconv.FormatInt(userID, 10), services.UpdateProfileInput{
		HeightCM:           req.HeightCM,
		WeightKG:           req.WeightKG,
		Age:                req.Age,
		Gender:             req.Gender,
		WeeklyRunFrequency: req.WeeklyRunFrequency,
		RunningPaceSec:     req.RunningPaceSec,
		ExerciseTime:       req.ExerciseTime,
		CoffeeIntake:       req.CoffeeIntake,
		WeightGoalKG:       req.WeightGoalKG,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}
