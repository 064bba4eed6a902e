package utils

import (
	"context"
	"log"
	"time"

	"debatehub/db"
	"debatehub/models"

	"github.com/google/uuid"
)

var starterTopics = []struct {
	Topic       string
	Description string
}{
	{"Social media does more harm than good", "Weigh connection and reach against polarization and mental health."},
	{"Remote work should be the default for knowledge workers", "Productivity, equity and culture in distributed teams."},
	{"AI-generated art is real art", "Authorship, intent and craft when the brush is a model."},
	{"Nuclear power is essential for decarbonization", "Baseload reliability versus waste and cost."},
}

// SeedDebateData inserts a few open offline debates on first run so the
// debate list is not empty. Errors are logged and ignored; seeding is
// best-effort.
func SeedDebateData(store db.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	debates, err := store.ListDebates(ctx)
	if err != nil || len(debates) > 0 {
		return
	}

	for _, t := range starterTopics {
		debate := &models.Debate{
			ID:          uuid.NewString(),
			Topic:       t.Topic,
			Description: t.Description,
			SideAName:   "Pro",
			SideBName:   "Con",
			Mode:        models.ModeOffline,
			Status:      models.StatusWaiting,
			CreatedAt:   time.Now(),
		}
		if err := store.InsertDebate(ctx, debate); err != nil {
			log.Printf("failed to seed debate %q: %v", t.Topic, err)
		}
	}
	log.Printf("Seeded %d starter debates", len(starterTopics))
}
