// Command seed populates a development database with sample members, terms,
// and active officer service records, then prints dev access tokens for the
// seeded members.
//
// It is intended for local development, not production. Requires the same
// configuration as the server (DATABASE_DSN, AUTH_JWT_SECRET).
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/adapter/postgres"
	ledgerrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/ledger"
	memberrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/member"
	termrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/term"
	"github.com/clubops/boardroom-backend/internal/auth"
	"github.com/clubops/boardroom-backend/internal/config"
	"github.com/clubops/boardroom-backend/internal/domain"
)

type seedMember struct {
	name  string
	email string
	role  string // organizational role for the dev token
	title string // officer title; empty means no active service record
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	members := memberrepo.New(pool)
	terms := termrepo.New(pool)
	ledger := ledgerrepo.New(pool)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	now := time.Now().UTC()
	currentStart := time.Date(now.Year(), 7, 1, 0, 0, 0, 0, time.UTC)
	if currentStart.After(now) {
		currentStart = currentStart.AddDate(-1, 0, 0)
	}

	current, err := terms.Create(ctx, &domain.Term{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("%d-%d", currentStart.Year(), currentStart.Year()+1),
		StartsOn: currentStart,
		EndsOn:   currentStart.AddDate(1, 0, 0),
	})
	if err != nil {
		log.Fatalf("create current term: %v", err)
	}

	next, err := terms.Create(ctx, &domain.Term{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("%d-%d", currentStart.Year()+1, currentStart.Year()+2),
		StartsOn: current.EndsOn,
		EndsOn:   current.EndsOn.AddDate(1, 0, 0),
	})
	if err != nil {
		log.Fatalf("create next term: %v", err)
	}

	seeds := []seedMember{
		{"Alice Nguyen", "alice@example.org", "admin", "President"},
		{"Bob Rivera", "bob@example.org", "officer", "VP Activities"},
		{"Carol Okafor", "carol@example.org", "officer", "Treasurer"},
		{"Dan Petrov", "dan@example.org", "officer", "Past President"},
		{"Eve Laurent", "eve@example.org", "member", ""},
	}

	fmt.Printf("Seeded terms: %s, %s (next transition %s)\n",
		current.Name, next.Name, next.StartsOn.Format("2006-01-02"))

	for _, s := range seeds {
		m, err := members.Create(ctx, &domain.Member{
			ID:       uuid.New(),
			FullName: s.name,
			Email:    s.email,
		})
		if err != nil {
			log.Fatalf("create member %s: %v", s.name, err)
		}

		if s.title != "" {
			_, err = ledger.Create(ctx, &domain.ServiceRecord{
				ID:        uuid.New(),
				MemberID:  m.ID,
				Type:      domain.ServiceTypeOfficer,
				RoleTitle: s.title,
				StartAt:   current.StartsOn,
			})
			if err != nil {
				log.Fatalf("create service record for %s: %v", s.name, err)
			}
		}

		token, err := jwtManager.GenerateAccessToken(m.ID, s.role, 24*time.Hour)
		if err != nil {
			log.Fatalf("generate token for %s: %v", s.name, err)
		}

		title := s.title
		if title == "" {
			title = "(no office)"
		}
		fmt.Printf("%-14s %-14s role=%-8s token=%s\n", s.name, title, s.role, token)
	}
}
