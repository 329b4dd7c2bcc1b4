package routes

import (
	"net/http"

	"github.com/lunanest/storytime/internal/app"
	"github.com/lunanest/storytime/internal/handler"
	"github.com/lunanest/storytime/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.Cfg.AppName)
	story := handler.NewStoryHandler(app.StoryService)
	folder := handler.NewFolderHandler(app.FolderService)
	subscription := handler.NewSubscriptionHandler(app.SubscriptionService)
	payment := handler.NewPaymentHandler(app.PaymentService)
	account := handler.NewAccountHandler(app.AccountService, app.SubscriptionService)

	requireAuth := middleware.RequireAuth(app.Verifier)
	rateLimiter := middleware.RateLimitGeneration()

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", health.Root)
	mux.HandleFunc("GET /health", health.Health)

	// Stored audio (local backend only; S3 serves its own URLs)
	if app.Cfg.StorageBackend == "" || app.Cfg.StorageBackend == "local" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.Cfg.UploadsDir))))
	}

	// Payment provider webhook (signature-verified, not bearer-authenticated)
	mux.HandleFunc("POST /api/webhook/payment", payment.Webhook)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Stories
	mux.HandleFunc("GET /api/stories", requireAuth(story.List))
	mux.HandleFunc("GET /api/stories/{id}", requireAuth(story.Get))
	mux.HandleFunc("POST /api/stories", rateLimiter(requireAuth(story.Create)))
	mux.HandleFunc("POST /api/stories/{id}/audio", rateLimiter(requireAuth(story.UploadAudio)))
	mux.HandleFunc("DELETE /api/stories/{id}", requireAuth(story.Delete))

	// Folders
	mux.HandleFunc("GET /api/folders", requireAuth(folder.List))
	mux.HandleFunc("POST /api/folders", requireAuth(folder.Create))
	mux.HandleFunc("GET /api/folders/{id}", requireAuth(folder.Get))
	mux.HandleFunc("PUT /api/folders/{id}", requireAuth(folder.Update))
	mux.HandleFunc("DELETE /api/folders/{id}", requireAuth(folder.Delete))
	mux.HandleFunc("GET /api/folders/{id}/stories", requireAuth(folder.Stories))
	mux.HandleFunc("POST /api/folders/{id}/stories", requireAuth(folder.AddStory))
	mux.HandleFunc("DELETE /api/folders/{id}/stories/{storyId}", requireAuth(folder.RemoveStory))

	// Subscription
	mux.HandleFunc("GET /api/subscription", requireAuth(subscription.Get))
	mux.HandleFunc("PUT /api/subscription", requireAuth(subscription.Update))
	mux.HandleFunc("POST /api/subscription/create", requireAuth(subscription.Create))
	mux.HandleFunc("POST /api/subscription/cancel", requireAuth(subscription.Cancel))
	mux.HandleFunc("GET /api/subscription/limits", requireAuth(subscription.Limits))

	// Payments
	mux.HandleFunc("GET /api/payments", requireAuth(payment.List))

	// Account
	mux.HandleFunc("DELETE /api/account", requireAuth(account.Delete))
	mux.HandleFunc("GET /api/stats", requireAuth(account.Stats))
	mux.HandleFunc("GET /api/profile", requireAuth(account.Profile))
	mux.HandleFunc("GET /api/preferences", requireAuth(account.Preferences))
	mux.HandleFunc("PUT /api/preferences", requireAuth(account.UpdatePreferences))
	mux.HandleFunc("GET /api/export", requireAuth(account.Export))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.AllowedOrigin),
		middleware.RequestLogging,
	)
}
