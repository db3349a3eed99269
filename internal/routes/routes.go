package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"

	"github.com/IdanZeman/fit-nutrition-web/internal/calendar"
	"github.com/IdanZeman/fit-nutrition-web/internal/config"
	"github.com/IdanZeman/fit-nutrition-web/internal/handlers"
	"github.com/IdanZeman/fit-nutrition-web/internal/middleware"
	"github.com/IdanZeman/fit-nutrition-web/internal/repository"
	"github.com/IdanZeman/fit-nutrition-web/internal/services"
	"github.com/IdanZeman/fit-nutrition-web/internal/wizard"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, mongoDB *mongo.Database) error {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	profileRepo := repository.NewProfileRepository(mongoDB)

	profileService := services.NewProfileService(profileRepo)

	var oauthCfg *oauth2.Config
	if cfg.CalendarEnabled() {
		oauthCfg = calendar.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}
	calendarService := services.NewCalendarService(tokenRepo, calendar.NewAdapter(), oauthCfg)

	authHandler := handlers.NewAuthHandler(userRepo, profileService, cfg.JWTSecret)
	wizardHandler := handlers.NewWizardHandler(wizard.NewManager(), userRepo, profileService)
	profileHandler := handlers.NewProfileHandler(profileService)
	dashboardHandler := handlers.NewDashboardHandler(userRepo, profileService, calendarService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	// Google redirects here without our session token; the consent state
	// value links the callback back to the user.
	api.Get("/calendar/oauth/callback", calendarHandler.Callback)

	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	wiz := protected.Group("/wizard")
	wiz.Get("", wizardHandler.GetState)
	wiz.Put("/answer", wizardHandler.SetAnswer)
	wiz.Post("/next", wizardHandler.Next)
	wiz.Post("/back", wizardHandler.Back)
	wiz.Post("/submit", wizardHandler.Submit)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	protected.Get("/dashboard", dashboardHandler.GetDashboard)

	cal := protected.Group("/calendar")
	cal.Get("/connect", calendarHandler.Connect)
	cal.Get("/events", calendarHandler.ListEvents)

	return registerDocsRoutes(app, cfg)
}
