package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()
	setupLogging(cfg)
	log.Info().Msg("Initializing app...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := config.LoadSSMParameters(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Error loading SSM parameters")
	}
	// SSM may carry LOG_LEVEL or LOG_FORMAT
	setupLogging(cfg)

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, "./generated"); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}

	if err := models.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	currentDB := database.New(db)

	sessions, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening session store")
	}
	defer sessions.Close()

	ttl := auth.SessionTTL(config.GetInt(cfg, "SESSION_TTL_HOURS", 168))
	gate, err := auth.NewGate(currentDB.ModeratorRepo(), sessions, auth.NewBcryptHasher(config.GetInt(cfg, "BCRYPT_COST", 0)), ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing auth gate")
	}

	if err := bootstrapModerator(ctx, cfg, currentDB, gate); err != nil {
		log.Fatal().Err(err).Msg("Error seeding bootstrap moderator")
	}

	deps := api.Dependencies{
		Database: currentDB,
		Gate:     gate,
		Projects: services.NewProjectService(currentDB),
	}

	uploader, err := services.NewS3CVUploaderFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing CV uploader")
	}
	if uploader != nil {
		deps.CVUploader = uploader
	} else {
		log.Warn().Msg("CV_BUCKET is not set; POST /cv is disabled")
	}

	if notifier := services.NewResendNotifierFromConfig(cfg); notifier != nil {
		deps.Notifier = notifier
	}

	// buffered so the listener can report ErrServerClosed after shutdown without blocking
	errChannel := make(chan error, 2)

	server, err := api.NewServer(deps, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(cfg map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(cfg, "LOG_FORMAT", "console") == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

func newSessionStore(cfg map[string]string) (auth.SessionStore, error) {
	switch kind := config.GetString(cfg, "SESSION_STORE", "memory"); kind {
	case "memory":
		log.Warn().Msg("Using in-memory session store; sessions are lost on restart")
		return auth.NewMemorySessionStore(), nil
	case "badger":
		dir := config.GetString(cfg, "SESSION_BADGER_DIR", "data/sessions")
		log.Info().Str("dir", dir).Msg("Using badger session store")
		return auth.OpenBadgerSessionStore(dir)
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", kind)
	}
}

// bootstrapModerator registers the configured moderator when none exist yet, since
// registering a moderator otherwise requires being logged in as one.
func bootstrapModerator(ctx context.Context, cfg map[string]string, db database.Database, gate *auth.Gate) error {
	username := config.GetString(cfg, "BOOTSTRAP_MOD_USERNAME", "")
	password := config.GetString(cfg, "BOOTSTRAP_MOD_PASSWORD", "")
	if username == "" || password == "" {
		return nil
	}

	count, err := db.ModeratorRepo().Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = gate.RegisterModerator(ctx, username, password)
	return err
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
