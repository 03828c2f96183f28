package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tastybites/ordering/internal/cart/slot"
	cartstore "github.com/tastybites/ordering/internal/cart/store"
	"github.com/tastybites/ordering/internal/checkout/journal"
	checkout "github.com/tastybites/ordering/internal/checkout/service"
	"github.com/tastybites/ordering/internal/events"
	"github.com/tastybites/ordering/internal/httpapi"
	"github.com/tastybites/ordering/internal/notify"
	"github.com/tastybites/ordering/internal/orders/repository"
	orders "github.com/tastybites/ordering/internal/orders/service"
	"github.com/tastybites/ordering/internal/session"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	RedisPassword   string
	SQLiteSlotPath  string
	MongoURI        string
	MongoDBName     string
	KafkaBrokers    string
	PGHost          string
	PGPort          int
	PGUser          string
	PGPassword      string
	PGDBName        string
	MigrationsPath  string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		SQLiteSlotPath:  getEnv("CART_SLOT_PATH", "./carts.db"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDBName:     getEnv("MONGO_DB_NAME", "ordering"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		PGHost:          getEnv("POSTGRES_HOST", "localhost"),
		PGPort:          pgPort,
		PGUser:          getEnv("POSTGRES_USER", "postgres"),
		PGPassword:      getEnv("POSTGRES_PASSWORD", "postgres"),
		PGDBName:        getEnv("POSTGRES_DB", "ordering"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./internal/orders/repository/migrations"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Order store
	creds := &repository.Credentials{
		Host:              cfg.PGHost,
		Port:              cfg.PGPort,
		User:              cfg.PGUser,
		Password:          cfg.PGPassword,
		DBName:            cfg.PGDBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Connected to postgres, migrations completed")

	// Durable cart slot: Redis when configured, file-backed SQLite otherwise
	var cartSlot slot.Slot
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		cartSlot = slot.NewRedisSlot(redisClient)
		log.Printf("Cart slot backed by redis at %s", cfg.RedisAddr)
	} else {
		sqliteSlot, err := slot.NewSQLiteSlot(cfg.SQLiteSlotPath)
		if err != nil {
			log.Fatalf("Failed to open sqlite cart slot: %v", err)
		}
		defer sqliteSlot.Close()
		cartSlot = sqliteSlot
		log.Printf("Cart slot backed by sqlite at %s", cfg.SQLiteSlotPath)
	}

	// Submission journal (optional)
	var jrnl journal.Journal
	if cfg.MongoURI != "" {
		mongoDB, err := journal.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoDB.Client().Disconnect(ctx)
		jrnl = journal.NewMongoJournal(mongoDB)
		log.Printf("Submission journal backed by mongo at %s", cfg.MongoURI)
	}

	// Order placed events (optional)
	var publisher events.Publisher
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing order events to kafka at %s", cfg.KafkaBrokers)
	}

	hub := notify.NewHub()
	hub.Subscribe(func(n notify.Notification) {
		log.Printf("notification [%s]: %s", n.Kind, n.Message)
	})

	ses := session.ContextSession{}
	carts := cartstore.NewManager(cartSlot, hub)
	pipeline := checkout.NewPipeline(ses, carts, repo, jrnl, publisher, hub)
	query := orders.NewQueryService(repo, ses, hub)

	router := httpapi.NewRouter(
		httpapi.NewCartHandler(carts, ses),
		httpapi.NewCheckoutHandler(pipeline),
		httpapi.NewOrdersHandler(query),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Ordering service starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
