package main

import (
	"context"
	"log"
	"time"

	"roofestimator/internal/config"
	"roofestimator/internal/database"
	"roofestimator/internal/modules/onboarding"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-cfg.DraftTTL)
	n, err := onboarding.NewDraftStore(db).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("cleanup onboarding drafts failed: %v", err)
	}

	log.Printf("draft cleanup completed: onboarding_drafts=%d cutoff=%s", n, cutoff.Format(time.RFC3339))
}
