package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/IdanZeman/fit-nutrition-web/internal/models"
	"github.com/IdanZeman/fit-nutrition-web/internal/wizard"
)

type stubWizardUserRepo struct {
	user *models.User
}

func (s *stubWizardUserRepo) CreateUser(_ context.Context, _ *models.User) error {
	return errors.New("not implemented")
}

func (s *stubWizardUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubWizardUserRepo) GetByID(_ context.Context, _ int64) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

type stubSubmitter struct {
	calls     int
	lastIdent models.Identity
	lastAns   map[string]string
	err       error
}

func (s *stubSubmitter) SubmitAnswers(_ context.Context, ident models.Identity, answers map[string]string) error {
	s.calls++
	s.lastIdent = ident
	s.lastAns = answers
	return s.err
}

func wizardTestApp(submitter *stubSubmitter) *fiber.App {
	handler := NewWizardHandler(
		wizard.NewManager(),
		&stubWizardUserRepo{user: &models.User{ID: 42, Email: "sam@example.com", DisplayName: "Sam"}},
		submitter,
	)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/v1/wizard", handler.GetState)
	app.Put("/api/v1/wizard/answer", handler.SetAnswer)
	app.Post("/api/v1/wizard/next", handler.Next)
	app.Post("/api/v1/wizard/back", handler.Back)
	app.Post("/api/v1/wizard/submit", handler.Submit)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	resp.Body.Close()
	return resp, decoded
}

func TestWizardGetStateStartsAtFirstQuestion(t *testing.T) {
	app := wizardTestApp(&stubSubmitter{})

	resp, state := doJSON(t, app, http.MethodGet, "/api/v1/wizard", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if state["name"] != "height" || state["step"] != float64(0) {
		t.Fatalf("unexpected first step %v", state)
	}
	if state["value"] != "170" {
		t.Fatalf("expected default height value, got %v", state["value"])
	}
}

func TestWizardNextBlocksOnEmptyAnswer(t *testing.T) {
	app := wizardTestApp(&stubSubmitter{})

	// Move to the gender step, which has no default.
	for i := 0; i < 3; i++ {
		doJSON(t, app, http.MethodPost, "/api/v1/wizard/next", "")
	}
	_, state := doJSON(t, app, http.MethodPost, "/api/v1/wizard/next", "")

	if state["name"] != "gender" {
		t.Fatalf("expected to stay on gender step, got %v", state["name"])
	}
	if state["error"] != "Please answer the question before moving on." {
		t.Fatalf("unexpected error %v", state["error"])
	}
}

func TestWizardAnswerRejectsUnknownField(t *testing.T) {
	app := wizardTestApp(&stubSubmitter{})

	resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/wizard/answer", `{"field":"shoeSize","value":"44"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.StatusCode)
	}
}

func TestWizardSubmitWithMissingFields(t *testing.T) {
	submitter := &stubSubmitter{}
	app := wizardTestApp(submitter)

	_, body := doJSON(t, app, http.MethodPost, "/api/v1/wizard/submit", "")

	if submitter.calls != 0 {
		t.Fatalf("expected store untouched, got %d calls", submitter.calls)
	}
	state := body["state"].(map[string]any)
	if state["error"] != "All fields are required." {
		t.Fatalf("unexpected error %v", state["error"])
	}
	if _, ok := body["redirect"]; ok {
		t.Fatal("expected no redirect on validation failure")
	}
}

func TestWizardSubmitHappyPath(t *testing.T) {
	submitter := &stubSubmitter{}
	app := wizardTestApp(submitter)

	answers := map[string]string{
		"gender":             "male",
		"weeklyRunFrequency": "3+",
		"exerciseTime":       "evening",
		"coffeeIntake":       "3-5",
	}
	for field, value := range answers {
		resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/wizard/answer",
			`{"field":"`+field+`","value":"`+value+`"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("answer %s: status %d", field, resp.StatusCode)
		}
	}

	_, body := doJSON(t, app, http.MethodPost, "/api/v1/wizard/submit", "")

	if submitter.calls != 1 {
		t.Fatalf("expected exactly one write, got %d", submitter.calls)
	}
	if submitter.lastIdent.Email != "sam@example.com" || submitter.lastIdent.DisplayName != "Sam" {
		t.Fatalf("expected identity metadata in submission, got %+v", submitter.lastIdent)
	}
	if submitter.lastAns["gender"] != "male" || submitter.lastAns["height"] != "170" {
		t.Fatalf("unexpected answers %v", submitter.lastAns)
	}

	state := body["state"].(map[string]any)
	if state["success"] != "Your profile has been successfully submitted!" {
		t.Fatalf("unexpected success message %v", state["success"])
	}
	redirect, ok := body["redirect"].(map[string]any)
	if !ok {
		t.Fatal("expected a redirect in the response")
	}
	if redirect["to"] != "/dashboard" || redirect["after_ms"] != float64(2000) {
		t.Fatalf("unexpected redirect %v", redirect)
	}
}

func TestWizardSubmitStoreFailure(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New("write failed")}
	app := wizardTestApp(submitter)

	for field, value := range map[string]string{
		"gender":             "female",
		"weeklyRunFrequency": "0",
		"exerciseTime":       "noon",
		"coffeeIntake":       "0",
	} {
		doJSON(t, app, http.MethodPut, "/api/v1/wizard/answer",
			`{"field":"`+field+`","value":"`+value+`"}`)
	}

	_, body := doJSON(t, app, http.MethodPost, "/api/v1/wizard/submit", "")

	state := body["state"].(map[string]any)
	if state["error"] != "Failed to save data. Please try again." {
		t.Fatalf("unexpected error %v", state["error"])
	}
	if _, ok := body["redirect"]; ok {
		t.Fatal("expected no redirect after store failure")
	}
}
