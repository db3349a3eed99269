package models

import "time"

// CalendarEvent is the normalized form of one upcoming Google Calendar item.
// Events are fetched fresh on every dashboard load and never persisted.
type CalendarEvent struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
}
