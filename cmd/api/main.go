package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aura-backend/internal/appointments"
	"aura-backend/internal/auth"
	"aura-backend/internal/cache"
	"aura-backend/internal/complaints"
	"aura-backend/internal/config"
	"aura-backend/internal/db"
	"aura-backend/internal/doctors"
	"aura-backend/internal/middleware"
	"aura-backend/internal/notifications"
	"aura-backend/internal/patients"
	"aura-backend/internal/payments"
	"aura-backend/internal/prescriptions"
	"aura-backend/internal/users"
	"aura-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected", slog.String("addr", cfg.RedisAddr))
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:    []byte(cfg.JWTSecret),
			AccessTTL: time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			Issuer:    "aura-backend",
		}
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	val := validation.New()

	doctorRepo := doctors.NewRepository(cols.Doctors)
	doctorService := doctors.NewService(doctorRepo, cfg.Timezone)
	doctorHandler := doctors.NewHandler(doctorService, val, logger)

	patientRepo := patients.NewRepository(cols.Patients)
	patientService := patients.NewService(patientRepo, cfg.Timezone)
	patientHandler := patients.NewHandler(patientService, val, logger)

	userRepo := users.NewRepository(cols.Users)
	userService := users.NewService(userRepo, jwtManager, cfg.Timezone, patientService)
	userHandler := users.NewHandler(userService, val, logger)

	notifier := notifications.NewService(mailer, userService, patientService, doctorService, logger)

	appointmentRepo := appointments.NewRepository(cols.Appointments)
	appointmentService := appointments.NewService(
		appointmentRepo, doctorService, cacheStore, notifier,
		cfg.Timezone, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	appointmentHandler := appointments.NewHandler(appointmentService, val, logger)

	prescriptionRepo := prescriptions.NewRepository(cols.Prescriptions)
	prescriptionService := prescriptions.NewService(prescriptionRepo, cfg.Timezone)
	prescriptionHandler := prescriptions.NewHandler(prescriptionService, val, logger)

	gateway := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.PaymentSuccessURL, cfg.PaymentCancelURL)
	paymentRepo := payments.NewRepository(cols.Payments)
	paymentService := payments.NewService(paymentRepo, appointmentService, gateway, cfg.PaymentCurrency, cfg.Timezone)
	paymentHandler := payments.NewHandler(paymentService, val, logger)

	complaintRepo := complaints.NewRepository(cols.Complaints)
	complaintService := complaints.NewService(complaintRepo, cfg.Timezone)
	complaintHandler := complaints.NewHandler(complaintService, val, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimitAppointments, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	complaintLimiter := middleware.NewRateLimiter(cfg.RateLimitComplaints, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.With(authLimiter.Middleware).Post("/auth/register", userHandler.Register)
		api.With(authLimiter.Middleware).Post("/auth/login", userHandler.Login)

		api.Get("/doctors", doctorHandler.List)
		api.Get("/doctors/{id}", doctorHandler.GetByID)
		api.Get("/doctors/{id}/slots", appointmentHandler.SlotsForDoctor)
		api.Get("/appointments/slots", appointmentHandler.AvailableSlots)

		// Gateway callbacks authenticate by signature, not by bearer token.
		api.Post("/payments/webhook", paymentHandler.Webhook)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticate(jwtManager))

			protected.Route("/users", func(u chi.Router) {
				u.With(middleware.Require(auth.PermManageUsers)).Get("/", userHandler.List)
				u.With(middleware.Require(auth.PermManageUsers)).Post("/", userHandler.Register)
				u.Get("/{id}", userHandler.GetByID)
				u.Put("/{id}", userHandler.UpdateProfile)
				u.Put("/{id}/change-password", userHandler.ChangePassword)
			})
			protected.Get("/users/{id}/complaints", complaintHandler.ListByUser)

			protected.Route("/doctors", func(d chi.Router) {
				d.With(middleware.Require(auth.PermManageDoctors)).Post("/", doctorHandler.Create)
				d.With(middleware.Require(auth.PermManageDoctors)).Delete("/{id}", doctorHandler.Delete)
				d.Get("/user/{userId}", doctorHandler.GetByUserID)
				d.Put("/{id}", doctorHandler.Update)
				d.Put("/{id}/availability", doctorHandler.SetAvailability)
			})
			protected.Get("/doctor-id/by-user/{userId}", doctorHandler.GetIDByUserID)

			protected.Route("/patients", func(p chi.Router) {
				p.With(middleware.Require(auth.PermListPatients)).Get("/", patientHandler.List)
				p.Get("/{id}", patientHandler.GetByID)
				p.Get("/user/{userId}", patientHandler.GetByUserID)
				p.Put("/{id}", patientHandler.Update)
				p.With(middleware.Require(auth.PermManageUsers)).Delete("/{id}", patientHandler.Delete)
			})
			protected.Get("/patient-id/{userId}", patientHandler.GetIDByUserID)

			protected.Route("/appointments", func(a chi.Router) {
				a.With(middleware.Require(auth.PermBookAppointment), bookingLimiter.Middleware).Post("/", appointmentHandler.Create)
				a.With(middleware.Require(auth.PermListAppointments)).Get("/", appointmentHandler.List)
				a.With(middleware.Require(auth.PermListAppointments)).Get("/{id}", appointmentHandler.GetByID)
				a.With(middleware.Require(auth.PermBookAppointment)).Patch("/{id}", appointmentHandler.Reschedule)
				a.With(middleware.Require(auth.PermBookAppointment)).Patch("/{id}/reschedule", appointmentHandler.Reschedule)
				a.With(middleware.Require(auth.PermSetAppointmentStat)).Patch("/{id}/status", appointmentHandler.UpdateStatus)
				a.With(middleware.Require(auth.PermDeleteAppointment)).Delete("/{id}", appointmentHandler.Delete)
			})
			protected.With(middleware.Require(auth.PermListAppointments)).Get("/patients/{id}/appointments", appointmentHandler.ListByPatient)
			protected.With(middleware.Require(auth.PermListAppointments)).Get("/doctors/{id}/appointments", appointmentHandler.ListByDoctor)

			protected.Route("/prescriptions", func(p chi.Router) {
				p.With(middleware.Require(auth.PermWritePrescription)).Post("/", prescriptionHandler.Create)
				p.With(middleware.Require(auth.PermManageUsers)).Get("/", prescriptionHandler.List)
				p.With(middleware.Require(auth.PermListPrescriptions)).Get("/{id}", prescriptionHandler.GetByID)
				p.With(middleware.Require(auth.PermListPrescriptions)).Get("/patient/{patientId}", prescriptionHandler.ListByPatient)
				p.With(middleware.Require(auth.PermListPrescriptions)).Get("/doctor/{doctorId}", prescriptionHandler.ListByDoctor)
				p.With(middleware.Require(auth.PermWritePrescription)).Put("/{id}", prescriptionHandler.Update)
				p.With(middleware.Require(auth.PermWritePrescription)).Delete("/{id}", prescriptionHandler.Delete)
			})

			protected.Route("/payments", func(p chi.Router) {
				p.With(middleware.Require(auth.PermBookAppointment), bookingLimiter.Middleware).Post("/checkout", paymentHandler.Checkout)
				p.With(middleware.Require(auth.PermManagePayments)).Get("/", paymentHandler.List)
				p.With(middleware.Require(auth.PermListPayments)).Get("/{id}", paymentHandler.GetByID)
				p.With(middleware.Require(auth.PermListPayments)).Get("/patient/{patientId}", paymentHandler.ListByPatient)
				p.With(middleware.Require(auth.PermListPayments)).Get("/doctor/{doctorId}", paymentHandler.ListByDoctor)
				p.With(middleware.Require(auth.PermManagePayments)).Patch("/{id}/status", paymentHandler.UpdateStatus)
			})

			protected.Route("/complaints", func(c chi.Router) {
				c.With(complaintLimiter.Middleware).Post("/", complaintHandler.Create)
				c.With(middleware.Require(auth.PermListComplaints)).Get("/", complaintHandler.List)
				c.Get("/mine", complaintHandler.ListMine)
				c.Get("/{id}", complaintHandler.GetByID)
				c.With(middleware.Require(auth.PermResolveComplaints)).Patch("/{id}/status", complaintHandler.UpdateStatus)
				c.With(middleware.Require(auth.PermResolveComplaints)).Delete("/{id}", complaintHandler.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
