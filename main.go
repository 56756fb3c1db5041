package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendora-backend/config"
	"trendora-backend/database"
	"trendora-backend/events"
	"trendora-backend/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	config.LoadEnv()
	if err := config.ValidateEnv(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	db, err := database.Connect()
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	if err := database.CreateDefaultAdmin(db); err != nil {
		logrus.WithError(err).Warn("failed to seed default admin")
	}

	var publisher *events.Publisher
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		publisher, err = events.NewPublisher(amqpURL)
		if err != nil {
			logrus.WithError(err).Warn("event publisher unavailable, continuing without it")
			publisher = nil
		}
	}

	r := gin.Default()

	origins := []string{}
	for _, o := range []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")} {
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, db, publisher)

	port := config.GetEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logrus.WithField("port", port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("forced shutdown")
	}

	if publisher != nil {
		publisher.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logrus.Info("server stopped")
}
