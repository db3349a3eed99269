package services

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"golang.org/x/oauth2"

	"github.com/IdanZeman/fit-nutrition-web/internal/calendar"
	"github.com/IdanZeman/fit-nutrition-web/internal/models"
)

type TokenStore interface {
	Get(ctx context.Context, userID int64) (*oauth2.Token, error)
	Upsert(ctx context.Context, userID int64, token *oauth2.Token) error
}

type EventLister interface {
	ListUpcoming(ctx context.Context, source oauth2.TokenSource, max int64) ([]models.CalendarEvent, error)
}

// CalendarService joins the stored per-user OAuth token with the calendar
// adapter. Both adapter call sites (dashboard mount and post-consent sync)
// go through EventsForUser.
type CalendarService struct {
	tokens   TokenStore
	adapter  EventLister
	oauthCfg *oauth2.Config
}

func NewCalendarService(tokens TokenStore, adapter EventLister, oauthCfg *oauth2.Config) *CalendarService {
	return &CalendarService{tokens: tokens, adapter: adapter, oauthCfg: oauthCfg}
}

// EventsForUser lists the user's upcoming events using their stored token.
// A missing token or unconfigured integration maps to ErrAuthRequired; a
// rotated token is persisted back so refreshes survive restarts.
func (s *CalendarService) EventsForUser(ctx context.Context, userID int64, max int64) ([]models.CalendarEvent, error) {
	if s.oauthCfg == nil {
		return nil, calendar.ErrAuthRequired
	}

	stored, err := s.tokens.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, calendar.ErrAuthRequired
		}
		return nil, err
	}

	source := s.oauthCfg.TokenSource(ctx, stored)
	events, err := s.adapter.ListUpcoming(ctx, source, max)
	if err != nil {
		return nil, err
	}

	if current, terr := source.Token(); terr == nil && current.AccessToken != stored.AccessToken {
		if uerr := s.tokens.Upsert(ctx, userID, current); uerr != nil {
			log.Printf("failed to persist refreshed google token for user %d: %v", userID, uerr)
		}
	}
	return events, nil
}

// Exchange trades the consent-flow code for a token and stores it.
func (s *CalendarService) Exchange(ctx context.Context, userID int64, code string) error {
	if s.oauthCfg == nil {
		return calendar.ErrAuthRequired
	}
	token, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return &calendar.FetchError{Err: err}
	}
	return s.tokens.Upsert(ctx, userID, token)
}

// AuthURL builds the consent URL for the single triggered sign-in prompt.
func (s *CalendarService) AuthURL(state string) string {
	if s.oauthCfg == nil {
		return ""
	}
	return s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}
