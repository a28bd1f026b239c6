package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"eliteagenda/internal/assistant"
	"eliteagenda/internal/handler"
	"eliteagenda/internal/middleware"
	"eliteagenda/internal/model"
	"eliteagenda/internal/push"
	"eliteagenda/internal/reminder"
	"eliteagenda/internal/store"
	ws "eliteagenda/internal/websocket"
)

// Config carries everything the server needs beyond the database handle.
type Config struct {
	Push             push.Config
	Assistant        assistant.Config
	MedicineKeywords []string
	Location         *time.Location
	SecureCookies    bool
	StaticDir        string
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	eventH        *handler.EventHandler
	shoppingH     *handler.ShoppingHandler
	goalH         *handler.GoalHandler
	assistantH    *handler.AssistantHandler
	notificationH *handler.NotificationHandler
	settingsH     *handler.SettingsHandler
	authH         *handler.AuthHandler
	pushH         *handler.PushHandler
	sessionStore  *store.SessionStore
	userStore     *store.UserStore
	scheduler     *reminder.Scheduler
	rateLimiter   *middleware.RateLimiter
	staticDir     string
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	eventStore := store.NewEventStore(db)
	shoppingStore := store.NewShoppingStore(db)
	goalStore := store.NewGoalStore(db)
	settingsStore := store.NewSettingsStore(db)
	chatStore := store.NewChatStore(db)
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	pushStore := store.NewPushStore(db)

	// Alarm pulses and notification changes go out over the hub so every
	// connected client hears and sees them.
	alarm := reminder.NewAlarm(ws.NewAlarmBeeper(hub))
	sink := reminder.NewSink(alarm, func(c reminder.Change) {
		if c.Action == "alarm_stopped" {
			hub.BroadcastAlarmStopped(c.AlarmState)
			return
		}
		hub.BroadcastNotification(c.Action, c.Notification, c.AlarmState)
	})

	// Web push delivery is optional; without VAPID keys reminders stay
	// in-app only.
	pushLogger := logger.With("component", "push")
	var pushSvc *push.Service
	var notifier reminder.Notifier
	var pushH *handler.PushHandler
	if cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.Push)
		notifier = push.NewNotifier(pushSvc, pushStore, pushLogger)
		pushH = handler.NewPushHandler(pushStore, pushSvc, pushLogger)
	}

	classifier := reminder.NewClassifier(cfg.MedicineKeywords)
	scheduler := reminder.NewScheduler(eventStore, sink, notifier, classifier, cfg.Location, logger.With("component", "reminder"))

	// The assistant is optional as well; without an API key its routes
	// are simply not registered.
	var assistantH *handler.AssistantHandler
	if cfg.Assistant.APIKey != "" {
		llm := assistant.NewClient(cfg.Assistant)
		svc := assistant.NewService(llm, chatStore, eventStore, func(e model.Event) {
			hub.Broadcast(ws.NewMessage("event", "created", e.ID, nil))
		}, logger.With("component", "assistant"))
		assistantH = handler.NewAssistantHandler(svc, chatStore, logger.With("component", "assistant"))
	}

	return &Server{
		db:            db,
		hub:           hub,
		eventH:        handler.NewEventHandler(eventStore, hub, logger.With("component", "event")),
		shoppingH:     handler.NewShoppingHandler(shoppingStore, hub, logger.With("component", "shopping")),
		goalH:         handler.NewGoalHandler(goalStore, hub, logger.With("component", "goal")),
		assistantH:    assistantH,
		notificationH: handler.NewNotificationHandler(sink),
		settingsH:     handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		authH:         handler.NewAuthHandler(userStore, sessionStore, cfg.SecureCookies, logger.With("component", "auth")),
		pushH:         pushH,
		sessionStore:  sessionStore,
		userStore:     userStore,
		scheduler:     scheduler,
		rateLimiter:   middleware.NewRateLimiter(),
		staticDir:     cfg.StaticDir,
		logger:        logger,
	}
}

// Scheduler returns the reminder scheduler so main can start and stop it.
func (s *Server) Scheduler() *reminder.Scheduler {
	return s.scheduler
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/api/", authMiddleware(protectedMux))
	outerMux.Handle("GET /ws", authMiddleware(ws.HandleWebSocket(s.hub)))

	if s.staticDir != "" {
		outerMux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Calendar API routes
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events/ics", s.eventH.ExportICS)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("PUT /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Shopping list API routes
	mux.HandleFunc("POST /api/shopping-items", s.shoppingH.Create)
	mux.HandleFunc("GET /api/shopping-items", s.shoppingH.List)
	mux.HandleFunc("PUT /api/shopping-items/{id}", s.shoppingH.Update)
	mux.HandleFunc("DELETE /api/shopping-items/{id}", s.shoppingH.Delete)
	mux.HandleFunc("POST /api/shopping-items/{id}/toggle", s.shoppingH.Toggle)
	mux.HandleFunc("POST /api/shopping-items/clear-completed", s.shoppingH.ClearCompleted)

	// Goals API routes
	mux.HandleFunc("POST /api/goals", s.goalH.Create)
	mux.HandleFunc("GET /api/goals", s.goalH.List)
	mux.HandleFunc("PUT /api/goals/{id}", s.goalH.Update)
	mux.HandleFunc("DELETE /api/goals/{id}", s.goalH.Delete)
	mux.HandleFunc("POST /api/goals/{id}/toggle", s.goalH.Toggle)
	mux.HandleFunc("PUT /api/goals/{id}/progress", s.goalH.SetProgress)

	// Notification API routes
	mux.HandleFunc("GET /api/notifications", s.notificationH.List)
	mux.HandleFunc("POST /api/notifications/{id}/dismiss", s.notificationH.Dismiss)
	mux.HandleFunc("POST /api/alarm/stop", s.notificationH.StopAlarm)

	// Settings API routes
	mux.HandleFunc("GET /api/settings", s.settingsH.List)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)

	// Assistant API routes
	if s.assistantH != nil {
		mux.HandleFunc("GET /api/assistant/messages", s.assistantH.ListMessages)
		mux.HandleFunc("POST /api/assistant/messages", s.assistantH.Send)
		mux.HandleFunc("DELETE /api/assistant/messages", s.assistantH.ClearMessages)
	}

	// Push notification API routes
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
	}
}
