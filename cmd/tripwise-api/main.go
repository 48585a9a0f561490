// README: Entry point; loads config, wires the model, preference store, quota and places services, and serves HTTP.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"

	"tripwise/internal/ai"
	"tripwise/internal/config"
	httptransport "tripwise/internal/http"
	"tripwise/internal/infra"
	"tripwise/internal/maps"
	"tripwise/internal/modules/preference"
	"tripwise/internal/modules/usage"
	"tripwise/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var llm ai.LLMProvider
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		gemini := ai.NewGeminiProvider(cfg.AI.GeminiKey, cfg.LLM.Model)
		defer gemini.Close()
		llm = gemini
	default:
		llm = ai.NewOpenAIProvider(cfg.AI.OpenAIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	}
	llm = ai.WithRetry(llm, cfg.LLM.Attempts, 2*time.Second)

	var app *firebase.App
	if cfg.Firebase.ProjectID != "" {
		app, err = infra.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
	}

	var opts []service.Option
	opts = append(opts, service.WithStrictSchedule(cfg.Schedule.Strict))

	if cfg.Preference.Store != "none" {
		var embedder ai.Embedder
		if cfg.Preference.Embedder == "gemini" {
			gemini := ai.NewGeminiEmbedder(cfg.AI.GeminiKey, "")
			defer gemini.Close()
			embedder = gemini
		} else {
			embedder = ai.NewHashEmbedder(0)
		}

		var store preference.Store
		switch cfg.Preference.Store {
		case "redis":
			rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
			if err != nil {
				log.Fatal(err)
			}
			defer rdb.Close()
			store = preference.NewRedisStore(rdb)
		case "firestore":
			fs, err := infra.NewFirestore(ctx, app)
			if err != nil {
				log.Fatal(err)
			}
			defer fs.Close()
			store = preference.NewFirestoreStore(fs, cfg.Firebase.Collection)
		default:
			store = preference.NewMemoryStore()
		}
		opts = append(opts, service.WithPreferences(preference.NewService(store, embedder), cfg.Preference.TopK))
		log.Printf("preferences: store=%s embedder=%s", cfg.Preference.Store, cfg.Preference.Embedder)
	}

	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer dbPool.Close()
		opts = append(opts, service.WithQuota(usage.NewService(usage.NewStore(dbPool, cfg.Usage.Monthly))))
	}

	if cfg.Maps.APIKey != "" {
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, service.WithEnricher(places))
	}

	planner, err := service.NewPlanner(llm, opts...)
	if err != nil {
		log.Fatal(err)
	}

	deps := httptransport.ServerDeps{
		Planner:     planner,
		PlanTimeout: cfg.LLM.Timeout,
		RateRPS:     cfg.Rate.RPS,
		RateBurst:   cfg.Rate.Burst,
		CORSOrigins: cfg.CORS.Origins,
	}
	if app != nil {
		verifier, err := infra.NewFirebaseVerifier(ctx, app)
		if err != nil {
			log.Fatalf("firebase auth: %v", err)
		}
		deps.Verifier = verifier
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewServer(deps).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("tripwise listening on %s (llm=%s)", cfg.HTTP.Addr, cfg.LLM.Provider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
