package repository

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/oauth2"
)

// TokenRepository persists the Google OAuth token obtained through the
// calendar consent flow, one row per user. Tokens are re-upserted whenever
// the oauth2 token source rotates them.
type TokenRepository struct {
	db DBTX
}

func NewTokenRepository(db DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Upsert(ctx context.Context, userID int64, token *oauth2.Token) error {
	query := `
		INSERT INTO google_tokens (user_id, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			refresh_token = CASE
				WHEN EXCLUDED.refresh_token <> '' THEN EXCLUDED.refresh_token
				ELSE google_tokens.refresh_token
			END,
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		userID, token.AccessToken, token.RefreshToken, token.TokenType, token.Expiry)
	return err
}

func (r *TokenRepository) Get(ctx context.Context, userID int64) (*oauth2.Token, error) {
	query := `
		SELECT access_token, refresh_token, token_type, expiry
		FROM google_tokens
		WHERE user_id = $1
	`
	var (
		token   oauth2.Token
		refresh sql.NullString
		expiry  time.Time
	)
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&token.AccessToken, &refresh, &token.TokenType, &expiry)
	if err != nil {
		return nil, err
	}
	token.RefreshToken = refresh.String
	token.Expiry = expiry
	return &token, nil
}
