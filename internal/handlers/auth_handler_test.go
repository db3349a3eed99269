package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/IdanZeman/fit-nutrition-web/internal/models"
	"github.com/IdanZeman/fit-nutrition-web/pkg/utils"
)

type stubAuthUserRepo struct {
	byEmail   map[string]*models.User
	byID      map[int64]*models.User
	createErr error
	nextID    int64
}

func (s *stubAuthUserRepo) CreateUser(_ context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	user.ID = s.nextID
	if s.byEmail == nil {
		s.byEmail = map[string]*models.User{}
	}
	if s.byID == nil {
		s.byID = map[int64]*models.User{}
	}
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *stubAuthUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubAuthUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

type stubEnsurer struct {
	ensured  []models.Identity
	profiles map[string]*models.UserProfile
}

func (s *stubEnsurer) Ensure(_ context.Context, ident models.Identity) error {
	s.ensured = append(s.ensured, ident)
	return nil
}

func (s *stubEnsurer) Get(_ context.Context, uid string) (*models.UserProfile, error) {
	return s.profiles[uid], nil
}

func authTestApp(repo *stubAuthUserRepo, ensurer *stubEnsurer) *fiber.App {
	app := fiber.New()
	h := NewAuthHandler(repo, ensurer, "test-secret")
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Get("/me", func(c *fiber.Ctx) error {
		claims, err := utils.ValidateToken(c.Get("Authorization"), "test-secret")
		if err != nil {
			return c.SendStatus(http.StatusUnauthorized)
		}
		c.Locals("user_id", claims.UserID)
		return h.Me(c)
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s: %v", path, err)
	}
	return resp
}

func TestRegisterCreatesUserAndInitialProfile(t *testing.T) {
	repo := &stubAuthUserRepo{}
	ensurer := &stubEnsurer{}
	app := authTestApp(repo, ensurer)

	resp := postJSON(t, app, "/register", map[string]string{
		"email":        "Runner@Example.com",
		"password":     "longenough",
		"display_name": "Runner",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Token == "" {
		t.Fatalf("expected a session token")
	}
	if _, ok := repo.byEmail["runner@example.com"]; !ok {
		t.Fatalf("expected email to be stored lowercased")
	}
	if len(ensurer.ensured) != 1 {
		t.Fatalf("expected one profile ensure, got %d", len(ensurer.ensured))
	}
	if ensurer.ensured[0].DisplayName != "Runner" {
		t.Fatalf("unexpected ensured identity: %+v", ensurer.ensured[0])
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &stubAuthUserRepo{
		byEmail: map[string]*models.User{
			"runner@example.com": {ID: 1, Email: "runner@example.com"},
		},
	}
	app := authTestApp(repo, &stubEnsurer{})

	resp := postJSON(t, app, "/register", map[string]string{
		"email":        "runner@example.com",
		"password":     "longenough",
		"display_name": "Runner",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "longenough", "display_name": "R"}},
		{"short password", map[string]string{"email": "r@example.com", "password": "short", "display_name": "R"}},
		{"missing display name", map[string]string{"email": "r@example.com", "password": "longenough"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := authTestApp(&stubAuthUserRepo{}, &stubEnsurer{})
			resp := postJSON(t, app, "/register", tc.payload)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := utils.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &stubAuthUserRepo{
		byEmail: map[string]*models.User{
			"runner@example.com": {ID: 1, Email: "runner@example.com", PasswordHash: hash},
		},
	}
	app := authTestApp(repo, &stubEnsurer{})

	resp := postJSON(t, app, "/login", map[string]string{
		"email":    "runner@example.com",
		"password": "wrong-password",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMeReportsOnboardingState(t *testing.T) {
	repo := &stubAuthUserRepo{
		byID: map[int64]*models.User{
			7: {ID: 7, Email: "runner@example.com", DisplayName: "Runner"},
		},
	}
	ensurer := &stubEnsurer{profiles: map[string]*models.UserProfile{}}
	app := authTestApp(repo, ensurer)

	token, err := utils.GenerateToken("7", "test-secret")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		OnboardingComplete bool `json:"onboarding_complete"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.OnboardingComplete {
		t.Fatalf("expected onboarding_complete to be false without a submitted profile")
	}
}
