package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mjcarver/gymledger/internal/backup"
	"github.com/mjcarver/gymledger/internal/billing"
	"github.com/mjcarver/gymledger/internal/handler"
	"github.com/mjcarver/gymledger/internal/middleware"
	"github.com/mjcarver/gymledger/internal/push"
	"github.com/mjcarver/gymledger/internal/renewal"
	"github.com/mjcarver/gymledger/internal/store"
	ws "github.com/mjcarver/gymledger/internal/websocket"
)

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	authH         *handler.AuthHandler
	memberH       *handler.MemberHandler
	workoutH      *handler.WorkoutHandler
	progressH     *handler.ProgressHandler
	planH         *handler.PlanHandler
	dietChartH    *handler.DietChartHandler
	trainerH      *handler.TrainerHandler
	notificationH *handler.NotificationHandler
	userH         *handler.UserHandler
	billingH      *handler.BillingHandler
	pushH         *handler.PushHandler

	sessionStore  *store.SessionStore
	userStore     *store.UserStore
	reminderStore *store.ReminderStore
	rateLimiter   *middleware.RateLimiter

	scheduler     *renewal.Scheduler
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, billingCfg billing.Config, pushCfg push.Config, backupCfg backup.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	memberStore := store.NewMemberStore(db)
	trainerStore := store.NewTrainerStore(db)
	workoutStore := store.NewWorkoutStore(db)
	progressStore := store.NewProgressStore(db)
	planStore := store.NewPlanStore(db)
	dietChartStore := store.NewDietChartStore(db)
	notificationStore := store.NewNotificationStore(db)
	reminderStore := store.NewReminderStore(db)
	paymentStore := store.NewPaymentStore(db)
	pushStore := store.NewPushStore(db)

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)

	pushLogger := logger.With("component", "push")

	// Push delivery is optional; without VAPID keys notifications are
	// record-only and the renewal dispatcher runs with a nil Delivery.
	pushSvc := push.NewService(pushCfg)
	var delivery renewal.Delivery
	if pushCfg.Enabled() {
		delivery = push.NewNotifier(pushSvc, pushStore, pushLogger)
	}

	dispatcher := renewal.NewDispatcher(notificationStore, reminderStore, delivery, logger.With("component", "renewal"))
	scheduler := renewal.NewScheduler(memberStore, dispatcher, renewal.DefaultWindows, logger.With("component", "renewal"))

	backupMgr := backup.NewManager(backupCfg, db, logger.With("component", "backup"))

	billingClient := billing.NewClient(billingCfg)

	return &Server{
		db:  db,
		hub: hub,

		authH:         handler.NewAuthHandler(userStore, memberStore, sessionStore, logger.With("component", "auth")),
		memberH:       handler.NewMemberHandler(memberStore, hub, logger.With("component", "member")),
		workoutH:      handler.NewWorkoutHandler(workoutStore, hub, logger.With("component", "workout")),
		progressH:     handler.NewProgressHandler(progressStore, hub, logger.With("component", "progress")),
		planH:         handler.NewPlanHandler(planStore, hub, logger.With("component", "plan")),
		dietChartH:    handler.NewDietChartHandler(dietChartStore, hub, logger.With("component", "diet_chart")),
		trainerH:      handler.NewTrainerHandler(trainerStore, logger.With("component", "trainer")),
		notificationH: handler.NewNotificationHandler(notificationStore, memberStore, scheduler, delivery, hub, logger.With("component", "notification")),
		userH:         handler.NewUserHandler(userStore, logger.With("component", "user")),
		billingH:      handler.NewBillingHandler(billingClient, billingCfg.Enabled(), paymentStore, memberStore, notificationStore, hub, logger.With("component", "billing")),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, pushLogger),

		sessionStore:  sessionStore,
		userStore:     userStore,
		reminderStore: reminderStore,
		rateLimiter:   middleware.NewRateLimiter(),

		scheduler:     scheduler,
		backupManager: backupMgr,
		logger:        logger,
	}
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Scheduler returns the renewal scheduler for lifecycle management.
func (s *Server) Scheduler() *renewal.Scheduler {
	return s.scheduler
}

// BackupManager returns the backup manager for lifecycle management.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// ReminderStore returns the reminder log for cleanup tasks.
func (s *Server) ReminderStore() *store.ReminderStore {
	return s.reminderStore
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
	outerMux.HandleFunc("POST /api/webhooks/stripe", s.billingH.HandleStripeWebhook)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

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
	// Session routes
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Member profile routes. Admins and trainers see everyone; a member
	// sees only their own record.
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("GET /api/members/{id}/workouts", s.workoutH.ListForMember)
	mux.HandleFunc("GET /api/members/{id}/progress", s.progressH.ListForMember)
	mux.HandleFunc("GET /api/members/{id}/plans", s.planH.ListForMember)
	mux.HandleFunc("GET /api/members/{id}/diet-charts", s.dietChartH.ListForMember)

	// Workout logging
	mux.HandleFunc("POST /api/workouts", s.workoutH.Create)
	mux.HandleFunc("GET /api/workouts/{id}", s.workoutH.Get)
	mux.HandleFunc("PUT /api/workouts/{id}", s.workoutH.Update)
	mux.HandleFunc("DELETE /api/workouts/{id}", s.workoutH.Delete)

	// Progress tracking
	mux.HandleFunc("POST /api/progress", s.progressH.Create)
	mux.HandleFunc("DELETE /api/progress/{id}", s.progressH.Delete)

	// Fitness plans and diet charts (member view)
	mux.HandleFunc("GET /api/plans/{id}", s.planH.Get)
	mux.HandleFunc("GET /api/diet-charts/{id}", s.dietChartH.Get)

	// Trainer roster
	mux.HandleFunc("GET /api/trainers", s.trainerH.List)
	mux.HandleFunc("GET /api/trainers/{id}", s.trainerH.Get)

	// Notification inbox
	mux.HandleFunc("GET /api/notifications", s.notificationH.List)
	mux.HandleFunc("GET /api/notifications/unread-count", s.notificationH.UnreadCount)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.notificationH.MarkRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.notificationH.Delete)

	// Billing
	mux.HandleFunc("POST /api/billing/checkout", s.billingH.CreateCheckout)
	mux.HandleFunc("GET /api/billing/payments", s.billingH.ListOwn)

	// Push subscriptions
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscriptions", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	// Staff routes: admins and trainers
	staffMux := http.NewServeMux()
	staffMux.HandleFunc("POST /api/staff/plans", s.planH.Create)
	staffMux.HandleFunc("PUT /api/staff/plans/{id}", s.planH.Update)
	staffMux.HandleFunc("POST /api/staff/diet-charts", s.dietChartH.Create)
	staffMux.HandleFunc("PUT /api/staff/diet-charts/{id}", s.dietChartH.Update)
	mux.Handle("/api/staff/", middleware.RequireStaff(staffMux))

	// Admin console
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /api/admin/members", s.memberH.List)
	adminMux.HandleFunc("POST /api/admin/members", s.memberH.Create)
	adminMux.HandleFunc("DELETE /api/admin/members/{id}", s.memberH.Delete)
	adminMux.HandleFunc("POST /api/admin/members/{id}/payments", s.billingH.RecordManualPayment)

	adminMux.HandleFunc("POST /api/admin/trainers", s.trainerH.Create)
	adminMux.HandleFunc("PUT /api/admin/trainers/{id}", s.trainerH.Update)
	adminMux.HandleFunc("DELETE /api/admin/trainers/{id}", s.trainerH.Delete)

	adminMux.HandleFunc("GET /api/admin/plans", s.planH.ListAll)
	adminMux.HandleFunc("DELETE /api/admin/plans/{id}", s.planH.Delete)
	adminMux.HandleFunc("GET /api/admin/diet-charts", s.dietChartH.ListAll)
	adminMux.HandleFunc("DELETE /api/admin/diet-charts/{id}", s.dietChartH.Delete)

	adminMux.HandleFunc("GET /api/admin/notifications", s.notificationH.ListAll)
	adminMux.HandleFunc("POST /api/admin/notifications", s.notificationH.SendCustom)
	adminMux.HandleFunc("GET /api/admin/renewals", s.notificationH.ListRenewals)
	adminMux.HandleFunc("POST /api/admin/renewals/check", s.notificationH.RunRenewalCheck)

	adminMux.HandleFunc("GET /api/admin/payments", s.billingH.ListAll)

	adminMux.HandleFunc("GET /api/admin/users", s.userH.List)
	adminMux.HandleFunc("PUT /api/admin/users/{id}/role", s.userH.SetRole)
	adminMux.HandleFunc("PUT /api/admin/users/{id}/active", s.userH.SetActive)

	adminMux.HandleFunc("GET /api/admin/backup/status", s.backupStatusHandler)
	adminMux.HandleFunc("POST /api/admin/backup/run", s.backupRunHandler)

	mux.Handle("/api/admin/", middleware.RequireAdmin(adminMux))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))
}

func (s *Server) backupStatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.backupManager.Status())
}

func (s *Server) backupRunHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.backupManager.RunNow(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.backupManager.Status())
}
