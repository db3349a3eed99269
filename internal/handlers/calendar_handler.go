package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/IdanZeman/fit-nutrition-web/internal/calendar"
)

type calendarConnector interface {
	eventSource
	AuthURL(state string) string
	Exchange(ctx context.Context, userID int64, code string) error
}

// CalendarHandler drives the Google consent flow and the events listing.
// Consent is the only interactive step; everything else reuses the stored
// token.
type CalendarHandler struct {
	service calendarConnector
	states  *stateStore
}

func NewCalendarHandler(service calendarConnector) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		states:  newStateStore(),
	}
}

// Connect starts the one triggered sign-in prompt: it hands back the Google
// consent URL bound to a short-lived state value.
func (h *CalendarHandler) Connect(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	state := uuid.NewString()
	url := h.service.AuthURL(state)
	if url == "" {
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Google Calendar integration is not configured"})
	}
	h.states.put(state, userID)

	return c.JSON(fiber.Map{"auth_url": url})
}

// Callback finishes the consent flow: exchange the code, store the token,
// then run the post-consent fetch so the user sees their events immediately.
func (h *CalendarHandler) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing state or code"})
	}

	userID, ok := h.states.take(state)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown or expired state"})
	}

	if err := h.service.Exchange(c.Context(), userID, code); err != nil {
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"error": "Failed to complete Google authorization"})
	}

	events, err := h.service.EventsForUser(c.Context(), userID, calendar.DefaultMaxResults)
	if err != nil {
		// The token is stored; the fetch failing is only a warning.
		return c.JSON(fiber.Map{
			"connected":        true,
			"events":           []any{},
			"calendar_warning": calendarWarning(err),
		})
	}
	return c.JSON(fiber.Map{"connected": true, "events": events})
}

func (h *CalendarHandler) ListEvents(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	events, err := h.service.EventsForUser(c.Context(), userID, calendar.DefaultMaxResults)
	if err != nil {
		if errors.Is(err, calendar.ErrAuthRequired) {
			return c.Status(fiber.StatusPreconditionRequired).
				JSON(fiber.Map{"error": "Google Calendar authorization required"})
		}
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"error": "Failed to fetch calendar events"})
	}
	return c.JSON(fiber.Map{"events": events})
}

const stateTTL = 10 * time.Minute

type stateEntry struct {
	userID  int64
	expires time.Time
}

// stateStore maps consent-flow state values back to the user who started
// the flow; the callback arrives without our session token.
type stateStore struct {
	mu      sync.Mutex
	entries map[string]stateEntry
}

func newStateStore() *stateStore {
	return &stateStore{entries: make(map[string]stateEntry)}
}

func (s *stateStore) put(state string, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if time.Now().After(e.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[state] = stateEntry{userID: userID, expires: time.Now().Add(stateTTL)}
}

func (s *stateStore) take(state string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[state]
	if !ok {
		return 0, false
	}
	delete(s.entries, state)
	if time.Now().After(e.expires) {
		return 0, false
	}
	return e.userID, true
}
