package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"drone-survey-system/internal/application"
	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/infrastructure/config"
	"drone-survey-system/internal/infrastructure/remote"
	"drone-survey-system/internal/infrastructure/repositories"
	"drone-survey-system/internal/infrastructure/seed"
	"drone-survey-system/internal/infrastructure/storage"
	"drone-survey-system/internal/ports"
	"drone-survey-system/internal/ports/api"
	"drone-survey-system/internal/ports/events"
	"drone-survey-system/internal/ports/ws"
	"drone-survey-system/pkg/logger"
	"drone-survey-system/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// Прапорці мають пріоритет над оточенням
	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP server address")
	flag.StringVar(&cfg.DatabaseURL, "db", cfg.DatabaseURL, "Database URL, empty disables persistence")
	flag.StringVar(&cfg.MinioEndpoint, "minio-endpoint", cfg.MinioEndpoint, "MinIO server endpoint, empty disables snapshots")
	flag.StringVar(&cfg.MinioAccessKey, "minio-access-key", cfg.MinioAccessKey, "MinIO access key")
	flag.StringVar(&cfg.MinioSecretKey, "minio-secret-key", cfg.MinioSecretKey, "MinIO secret key")
	flag.StringVar(&cfg.MinioBucket, "minio-bucket", cfg.MinioBucket, "MinIO bucket for mission snapshots")
	flag.BoolVar(&cfg.MinioUseSSL, "minio-use-ssl", cfg.MinioUseSSL, "Use SSL for MinIO connection")
	flag.StringVar(&cfg.RemoteMissionsURL, "remote-missions", cfg.RemoteMissionsURL, "Base URL of the remote mission service")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.BoolVar(&cfg.SeedMissions, "seed", cfg.SeedMissions, "Load sample missions on start")
	flag.Parse()

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	m := metrics.NewMetrics(cfg.MetricsNamespace, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repositories.NewMemoryMissionStore()

	var seedMissions []domain.Mission
	if cfg.SeedMissions {
		seedMissions, err = seed.Missions()
		if err != nil {
			log.Fatal("Error loading seed missions", "error", err)
		}
	}

	// Збереження у PostgreSQL
	var syncer *application.PersistenceSyncer
	if cfg.PersistenceEnabled() {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Error connecting to database", "error", err)
		}
		defer db.Close()

		syncer = application.NewPersistenceSyncer(repositories.NewPostgresMissionRepository(db), store, log, m)
		count, err := syncer.Load(ctx, seedMissions)
		if err != nil {
			log.Fatal("Error loading missions from database", "error", err)
		}
		log.Info("Mission store loaded", "count", count, "source", "postgres")
	} else if len(seedMissions) > 0 {
		if err := store.ReplaceAll(seedMissions); err != nil {
			log.Fatal("Error seeding mission store", "error", err)
		}
		log.Info("Mission store loaded", "count", len(seedMissions), "source", "seed")
	}
	m.Missions.Set(float64(len(store.List())))

	// Знімки у MinIO
	var snapshotStorage ports.SnapshotStorage
	if cfg.SnapshotsEnabled() {
		minioStorage, err := storage.NewMinioSnapshotStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatal("Error initializing snapshot storage", "error", err)
		}
		snapshotStorage = minioStorage
	}

	var serviceOpts []application.MissionServiceOption
	if cfg.RemoteFetchEnabled() {
		serviceOpts = append(serviceOpts, application.WithFetcher(remote.NewMissionClient(cfg.RemoteMissionsURL, cfg.RemoteTimeout, m)))
	}

	missionService := application.NewMissionService(store, log.With("component", "missions"), m, serviceOpts...)
	analyticsService := application.NewAnalyticsService(store, nil)
	snapshotService := application.NewSnapshotService(snapshotStorage, store, missionService, log.With("component", "snapshots"))

	missionHandler := api.NewMissionHandler(missionService)
	analyticsHandler := api.NewAnalyticsHandler(analyticsService)
	snapshotHandler := api.NewSnapshotHandler(snapshotService)
	feedHandler := ws.NewMissionFeedHandler(store, log.With("component", "ws"), m, originChecker(cfg.AllowedOrigins))
	defer feedHandler.Close()

	stream := events.NewMissionStream(store, log.With("component", "sse"), m)
	stream.Start(ctx)
	if syncer != nil {
		syncer.Start(ctx)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(60 * time.Second))

				missionHandler.RegisterRoutes(r)
				analyticsHandler.RegisterRoutes(r)
				snapshotHandler.RegisterRoutes(r)
			})

			// Потокові маршрути без обмеження часу запиту
			r.Get("/ws/missions", feedHandler.HandleConnection)
			r.Handle("/events", stream)
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	// Shutdown не чекає на потокові з'єднання, якщо SSE-клієнтів закрито
	srv.RegisterOnShutdown(stream.Shutdown)

	go func() {
		log.Info("Starting server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	stream.Wait()
	if syncer != nil {
		syncer.Wait()
	}

	log.Info("Server gracefully stopped")
}

// originChecker перевіряє Origin WebSocket-запиту за списком CORS
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
