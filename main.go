package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/handlers"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/auth"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/cart"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/orders"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/products"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/stores/kafka"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/stores/postgres"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/users"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/logkey"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := startApp(); err != nil {
		slog.Error("service terminated", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on environment")
	}

	db, err := postgres.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return err
	}
	slog.Info("migrations applied")

	privatePEM, err := os.ReadFile(getenv("AUTH_PRIVATE_KEY_FILE", "private.pem"))
	if err != nil {
		return err
	}
	publicPEM, err := os.ReadFile(getenv("AUTH_PUBLIC_KEY_FILE", "pubkey.pem"))
	if err != nil {
		return err
	}
	keys, err := auth.ParseKeys(privatePEM, publicPEM)
	if err != nil {
		return err
	}

	userConf, err := users.NewConf(db)
	if err != nil {
		return err
	}
	productConf, err := products.NewConf(db)
	if err != nil {
		return err
	}
	cartConf, err := cart.NewConf(db)
	if err != nil {
		return err
	}
	orderConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}

	// Kafka is optional; without brokers the service runs and skips
	// event publishing.
	var producer handlers.EventProducer
	if brokers := splitCSV(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		kafkaConf, err := kafka.NewConf(brokers)
		if err != nil {
			return err
		}
		defer kafkaConf.Close()
		producer = kafkaConf
	}

	api, err := handlers.API(keys, userConf, productConf, cartConf, orderConf, producer)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         getenv("APP_PORT", ":8080"),
		Handler:      api,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("server started", slog.String("Addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-shutdown:
		slog.Info("shutdown initiated", slog.String("Signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			if er := server.Close(); er != nil {
				return er
			}
			return err
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
