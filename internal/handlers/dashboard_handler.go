package handlers

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/IdanZeman/fit-nutrition-web/internal/calendar"
	"github.com/IdanZeman/fit-nutrition-web/internal/models"
)

type eventSource interface {
	EventsForUser(ctx context.Context, userID int64, max int64) ([]models.CalendarEvent, error)
}

// DashboardHandler composes the dashboard view: greeting from the identity,
// the stored profile (read-only) and the upcoming calendar events. Profile
// and calendar are independent, non-blocking fetches; a failure in one never
// hides the other.
type DashboardHandler struct {
	userRepo identityStore
	profiles profileEnsurer
	events   eventSource
}

func NewDashboardHandler(userRepo identityStore, profiles profileEnsurer, events eventSource) *DashboardHandler {
	return &DashboardHandler{
		userRepo: userRepo,
		profiles: profiles,
		events:   events,
	}
}

func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	// Identity resolution gates the whole view, like the loading state the
	// client shows until the auth check settles.
	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	ctx := c.Context()
	uid := strconv.FormatInt(userID, 10)

	var (
		wg       sync.WaitGroup
		profile  *models.UserProfile
		perr     error
		events   []models.CalendarEvent
		eventErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, perr = h.profiles.Get(ctx, uid)
	}()
	go func() {
		defer wg.Done()
		events, eventErr = h.events.EventsForUser(ctx, userID, calendar.DefaultMaxResults)
	}()
	wg.Wait()

	resp := fiber.Map{
		"display_name": user.DisplayName,
		"events":       []models.CalendarEvent{},
	}
	if perr == nil && profile != nil {
		resp["profile"] = profile
	}
	if eventErr != nil {
		resp["calendar_warning"] = calendarWarning(eventErr)
	} else if events != nil {
		resp["events"] = events
	}
	return c.JSON(resp)
}

func calendarWarning(err error) string {
	if errors.Is(err, calendar.ErrAuthRequired) {
		return "Connect your Google Calendar to see upcoming events."
	}
	return "Could not load calendar events."
}
