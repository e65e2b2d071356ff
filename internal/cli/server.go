package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/config"
	"arena-quiz-service/internal/infra/memory"
	pgloader "arena-quiz-service/internal/infra/postgres"
	redisinfra "arena-quiz-service/internal/infra/redis"
	transport "arena-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader
	loader, err = sampleQuestionLoader()
	if err != nil {
		return err
	}
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool)
	}

	rules := gameRules(cfg)

	bankTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questionRepo app.QuestionRepository
	if redisClient != nil {
		questionRepo = redisinfra.NewQuestionRepository(redisClient, loader, bankTTL)
	} else {
		questionRepo = memory.NewQuestionRepository(loader, bankTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, rules, redisTTL)
	} else {
		store = memory.NewSessionStore(rules)
	}
	service := app.NewGameService(store, questionRepo)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting arena quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// gameRules applies config overrides on top of the default run rules.
func gameRules(cfg config.Config) app.Rules {
	rules := app.DefaultRules()
	if cfg.Game.TimeLimit > 0 {
		rules.TimeLimit = cfg.Game.TimeLimit
	}
	if cfg.Game.QuestionsPerGame > 0 && cfg.Game.QuestionsPerGame < rules.QuestionsPerGame {
		rules.QuestionsPerGame = cfg.Game.QuestionsPerGame
	}
	rules.CorrectDelay = config.TTLDuration(cfg.Game.CorrectDelay, rules.CorrectDelay)
	rules.WrongDelay = config.TTLDuration(cfg.Game.WrongDelay, rules.WrongDelay)
	rules.DoubleChanceDelay = config.TTLDuration(cfg.Game.DoubleChanceDelay, rules.DoubleChanceDelay)
	if cfg.Game.PhoneConfidence > 0 && cfg.Game.PhoneConfidence < 1 {
		rules.PhoneConfidence = cfg.Game.PhoneConfidence
	}
	return rules
}
