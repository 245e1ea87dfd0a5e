// Package main seeds the database with demo accounts and notes.
//
// Each demo user gets the default tags plus a batch of notes with random tags,
// favorites and archived entries, which is enough to exercise listing, search and
// pagination from a client.
//
// Usage:
//
//	DATA_PATH=~/.notes go run ./cmd/seed
//	DATA_PATH=~/.notes go run ./cmd/seed -users 3 -notes 40
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/notesapp/notes-server/internal/auth"
	"github.com/notesapp/notes-server/internal/config"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/store/sqlite"
)

var (
	userCount = flag.Int("users", 2, "Number of demo users to create")
	noteCount = flag.Int("notes", 24, "Notes per demo user")
	password  = flag.String("password", "password123", "Password for every demo user")
)

var sampleNotes = []struct {
	title, content, emoji string
}{
	{"Grocery list", "- milk\n- eggs\n- sourdough\n- coffee beans", "🛒"},
	{"Sprint retro", "## Went well\nShipped tagging.\n\n## To improve\nSmaller pull requests.", "🔁"},
	{"Book ideas", "A lighthouse keeper who catalogs storms by smell.", "📚"},
	{"Workout plan", "Mon: run 5k\nWed: intervals\nFri: long run", "🏃"},
	{"Recipe: dal", "Red lentils, turmeric, cumin, garlic. Simmer 25 minutes.", "🍲"},
	{"Meeting notes", "Decided on SQLite for the first release. Revisit in Q3.", "🗒️"},
	{"Learning Go", "Interfaces are satisfied implicitly. Prefer small ones.", "🧠"},
	{"Trip packing", "Passport, charger, rain jacket, **snacks**.", "🧳"},
}

func main() {
	flag.Parse()

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("Opening database at: %s\n", cfg.Storage.DBPath)

	s, err := sqlite.Open(cfg.Storage.DBPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	key := cfg.Auth.TokenKey
	if key == nil {
		if key, err = auth.LoadOrGenerateKey(cfg.Storage.DataPath); err != nil {
			log.Fatalf("Failed to load token key: %v", err)
		}
	}
	tokens, err := auth.NewTokenService(key, cfg.Auth.TokenDuration)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	authService := service.NewAuthService(s, auth.NewPasswordHasher(auth.DefaultParams), tokens, nil, nil)
	tagService := service.NewTagService(s, nil)
	noteService := service.NewNoteService(s, nil, nil)

	ctx := context.Background()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	for n := 1; n <= *userCount; n++ {
		email := fmt.Sprintf("demo%d@example.com", n)

		user, err := authService.Register(ctx, service.RegisterRequest{
			Name:     fmt.Sprintf("Demo User %d", n),
			Email:    email,
			Password: *password,
		})
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			fmt.Printf("  %s already exists, skipping\n", email)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create %s: %v", email, err)
		}

		tags, err := tagService.ListTags(ctx, user.ID)
		if err != nil {
			log.Fatalf("Failed to list tags for %s: %v", email, err)
		}

		for i := range *noteCount {
			sample := sampleNotes[i%len(sampleNotes)]
			if _, err := noteService.CreateNote(ctx, user.ID, service.CreateNoteRequest{
				Title:      fmt.Sprintf("%s #%d", sample.title, i+1),
				Content:    sample.content,
				Emoji:      sample.emoji,
				TagIDs:     pickTags(rng, tags),
				IsFavorite: rng.IntN(4) == 0,
				IsArchived: rng.IntN(6) == 0,
			}); err != nil {
				log.Fatalf("Failed to create note for %s: %v", email, err)
			}
		}

		list, err := noteService.ListNotes(ctx, user.ID, service.NewListNotesRequest())
		if err != nil {
			log.Fatalf("Failed to list notes for %s: %v", email, err)
		}

		fmt.Printf("Seeded %s with %d notes (%d pages) and %d tags\n",
			email, list.Pagination.Total, list.Pagination.TotalPages, len(tags))
	}

	fmt.Printf("\nDone. Log in with any demo user and password %q\n", *password)
}

// pickTags returns up to three distinct tag IDs.
func pickTags(rng *rand.Rand, tags []domain.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	n := rng.IntN(min(3, len(tags)) + 1)
	ids := make([]string, 0, n)
	for _, idx := range rng.Perm(len(tags))[:n] {
		ids = append(ids, tags[idx].ID)
	}
	return ids
}
