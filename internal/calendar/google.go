// Package calendar wraps the Google Calendar API behind a small adapter so
// the rest of the app depends only on normalized events and the two error
// conditions (authorization required, fetch failed), never on the client
// library itself.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/IdanZeman/fit-nutrition-web/internal/models"
)

// ErrAuthRequired signals that no valid Google token is available. The
// caller triggers the consent flow; the adapter never prompts by itself.
var ErrAuthRequired = errors.New("calendar authorization required")

// FetchError wraps transport and API failures. The dashboard surfaces it as
// a non-blocking warning and never retries automatically.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching calendar events: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

const DefaultMaxResults = 10

// Adapter lists upcoming events from the user's primary calendar.
type Adapter struct {
	now func() time.Time
}

func NewAdapter() *Adapter {
	return &Adapter{now: time.Now}
}

// ListUpcoming returns up to max single (non-recurring-expanded) events
// starting at or after now, ascending by start time. An empty calendar is an
// empty slice, not an error.
func (a *Adapter) ListUpcoming(ctx context.Context, source oauth2.TokenSource, max int64) ([]models.CalendarEvent, error) {
	if source == nil {
		return nil, ErrAuthRequired
	}
	if max <= 0 || max > DefaultMaxResults {
		max = DefaultMaxResults
	}

	svc, err := gcal.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	res, err := svc.Events.List("primary").
		TimeMin(a.now().UTC().Format(time.RFC3339)).
		MaxResults(max).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	return normalizeEvents(res.Items), nil
}

// normalizeEvents maps API items to CalendarEvents. All-day items carry only
// start.date / end.date; those fall back to the date value.
func normalizeEvents(items []*gcal.Event) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		start, allDay := eventTime(item.Start)
		end, _ := eventTime(item.End)
		events = append(events, models.CalendarEvent{
			Title:       item.Summary,
			Start:       start,
			End:         end,
			AllDay:      allDay,
			Location:    item.Location,
			Description: item.Description,
		})
	}
	return events
}

func eventTime(edt *gcal.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err == nil {
			return t, false
		}
	}
	if edt.Date != "" {
		t, err := time.Parse("2006-01-02", edt.Date)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
