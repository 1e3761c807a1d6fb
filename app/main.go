package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/regcomments/registry-comments/domain"
	"github.com/regcomments/registry-comments/internal/dbutil"
	"github.com/regcomments/registry-comments/internal/repository"
	"github.com/regcomments/registry-comments/internal/repository/database"
	pathCache "github.com/regcomments/registry-comments/internal/repository/redis"
	"github.com/regcomments/registry-comments/internal/rest"
	"github.com/regcomments/registry-comments/internal/rest/middleware"
	"github.com/regcomments/registry-comments/internal/rest/request"
	"github.com/regcomments/registry-comments/internal/tenant"
	"github.com/regcomments/registry-comments/internal/usecase/comment"
)

const (
	defaultTimeout  = 30
	defaultAddress  = ":9090"
	defaultCacheDB  = 0
	defaultPathTTL  = 600
	defaultMaxConns = 50
)

func init() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, reading configuration from the environment")
	}
}

func main() {
	// prepare database
	db, err := dbutil.Open(dbutil.Config{
		Driver:       os.Getenv("DATABASE_DRIVER"),
		Host:         os.Getenv("DATABASE_HOST"),
		Port:         os.Getenv("DATABASE_PORT"),
		User:         os.Getenv("DATABASE_USER"),
		Pass:         os.Getenv("DATABASE_PASS"),
		Name:         os.Getenv("DATABASE_NAME"),
		DSN:          os.Getenv("DATABASE_DSN"),
		MaxOpenConns: envInt("DATABASE_MAX_CONNS", defaultMaxConns),
	})
	if err != nil {
		logrus.Fatal("could not connect to database: ", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Fatal("got error when getting sql.DB from gorm.DB: ", err)
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Fatal("got error when closing the DB connection: ", err)
		}
	}()

	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := database.Migrate(db); err != nil {
			logrus.Fatal("failed to migrate the comment tables: ", err)
		}
	}

	// prepare cache
	var paths domain.PathCache
	if cacheHost := os.Getenv("CACHE_HOST"); cacheHost != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cacheHost + ":" + os.Getenv("CACHE_PORT"),
			Password: os.Getenv("CACHE_PASS"),
			DB:       envInt("CACHE_DB", defaultCacheDB),
		})
		defer func() {
			if err := client.Close(); err != nil {
				logrus.Error("got error when closing the cache connection: ", err)
			}
		}()

		if _, err := client.Ping(context.Background()).Result(); err != nil {
			logrus.Fatal("failed to open connection to cache: ", err)
		}
		paths = pathCache.NewPathCache(client, time.Duration(envInt("PATH_CACHE_TTL", defaultPathTTL))*time.Second)
	} else {
		logrus.Info("CACHE_HOST not set, resolving paths from the database only")
	}

	// Prepare Repository
	allocator, err := database.NewIDAllocator(db.Dialector.Name(), os.Getenv("COMMENT_ID_ALLOCATION"))
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Infof("comment ids are allocated in %s mode on %s", allocator.Mode(), db.Dialector.Name())

	tenants := tenant.NewContextProvider()
	conns := repository.NewConnProvider(db)
	pathRepo := database.NewPathRepository(conns, tenants)
	locator := repository.NewResourceLocator(pathRepo, paths, tenants)
	commentRepo := database.NewCommentRepository(conns, tenants, locator, allocator)

	// Build service Layer
	commentSvc := comment.NewService(commentRepo, locator, repository.NewTransactor(db))
	commentHandler := rest.NewCommentHandler(commentSvc)

	// prepare gin
	if err := request.RegisterValidators(); err != nil {
		logrus.Fatal("failed to register validators: ", err)
	}
	route := gin.Default()
	route.Use(middleware.SetRequestContextWithTimeout(time.Duration(envInt("CONTEXT_TIMEOUT", defaultTimeout)) * time.Second))
	route.Use(middleware.Tenant())
	route.Use(middleware.User())
	rest.RegisterCommentRoutes(route, commentHandler)

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Infof("Server is running on %s", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exiting")
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %d", key, def)
		return def
	}
	return v
}
