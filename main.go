package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive/handlers"
	"github.com/taskhive/taskhive/internal/attachments"
	"github.com/taskhive/taskhive/internal/comments"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/database"
	"github.com/taskhive/taskhive/internal/oidc"
	"github.com/taskhive/taskhive/internal/projects"
	"github.com/taskhive/taskhive/internal/sessions"
	"github.com/taskhive/taskhive/internal/tasks"
	"github.com/taskhive/taskhive/internal/tokens"
	"github.com/taskhive/taskhive/internal/users"
	"github.com/taskhive/taskhive/pkg/logger"
	"github.com/taskhive/taskhive/pkg/metrics"
	"github.com/taskhive/taskhive/pkg/middleware"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v oidc=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", cfg.OIDC.Issuer != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Permissive CORS for dev; production fronts this with a stricter proxy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Redis first so the rate limiter and the token registry can use it.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			rdb = nil
		} else {
			logger.Infof("connected to redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Mongo with retry to tolerate container startup races.
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		backoff := time.Second
		for attempt := 1; attempt <= 5; attempt++ {
			mongoClient, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				break
			}
			logger.Warnf("attempt %d/5: mongo connect failed: %v", attempt, err)
			if attempt < 5 {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if mongoClient != nil {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
		}
	}

	// Repositories: Mongo when available, in-memory otherwise so the service
	// still comes up for local development.
	var (
		usersRepo    users.Repository
		projectsRepo projects.Repository
		tasksRepo    tasks.Repository
		commentsRepo comments.Repository
		attachRepo   attachments.Repository
		tokenRepo    sessions.Repository
	)
	if mongoClient != nil {
		db := mongoClient.Database(cfg.MongoDB.Database)
		usersRepo = users.NewMongoRepository(db.Collection("users"))
		projectsRepo = projects.NewMongoRepository(db.Collection("projects"))
		tasksRepo = tasks.NewMongoRepository(db.Collection("tasks"))
		commentsRepo = comments.NewMongoRepository(db.Collection("comments"))
		attachRepo = attachments.NewMongoRepository(db.Collection("attachments"))
		tokenRepo = sessions.NewMongoRepository(db.Collection("issued_tokens"))
	} else {
		logger.Warn("mongo unavailable, using in-memory repositories")
		usersRepo = users.NewMemoryRepository()
		projectsRepo = projects.NewMemoryRepository()
		tasksRepo = tasks.NewMemoryRepository()
		commentsRepo = comments.NewMemoryRepository()
		attachRepo = attachments.NewMemoryRepository()
		tokenRepo = sessions.NewMemoryRepository()
	}
	// Redis preferred for the token registry: revocation takes effect on
	// every instance immediately.
	if rdb != nil {
		tokenRepo = sessions.NewRedisRepository(rdb, "token:")
	}

	usersSvc := users.NewService(usersRepo)
	projectsSvc := projects.NewService(projectsRepo)
	tasksSvc := tasks.NewService(tasksRepo)
	commentsSvc := comments.NewService(commentsRepo)
	tokenReg := sessions.NewService(tokenRepo)

	// Object storage is optional; attachments routes are skipped without it.
	var attachSvc *attachments.Service
	if cfg.MinIO.Endpoint != "" {
		store, err := attachments.NewMinIOStorage(cfg.MinIO)
		if err != nil {
			logger.Warnf("minio init failed: %v", err)
		} else {
			attachSvc = attachments.NewService(attachRepo, store)
		}
	}

	// Optional SSO signin.
	var sso *oidc.Verifier
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		sso, err = oidc.NewVerifier(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("oidc verifier init failed: %v", err)
			sso = nil
		}
	}

	if cfg.JWT.Secret == "" {
		logger.Fatalf("JWT_SECRET is required")
	}
	verifier := tokens.NewVerifier(cfg.JWT.Secret)
	auth := middleware.Auth(verifier, tokenReg)

	root := r.Group("/")
	handlers.NewAuthHandler(cfg, usersSvc, tokenReg, sso).Register(root, auth)
	handlers.NewUsersHandler(usersSvc, tokenReg).Register(root, auth)
	handlers.NewProjectsHandler(projectsSvc, tasksSvc).Register(root, auth)
	handlers.NewTasksHandler(tasksSvc).Register(root, auth)
	handlers.NewCommentsHandler(commentsSvc).Register(root, auth)
	if attachSvc != nil {
		handlers.NewAttachmentsHandler(attachSvc).Register(root, auth)
	}
	handlers.NewAreaHandler(verifier, tokenReg).Register(r)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"mongo":   mongoClient != nil,
			"redis":   rdb != nil || cfg.Redis.Host == "",
			"storage": attachSvc != nil || cfg.MinIO.Endpoint == "",
		}
		ready := deps["redis"] && deps["storage"]
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting taskhive API on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server failed: %v", err)
	}
}
