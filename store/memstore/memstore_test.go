package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	campusAuth "github.com/MrEthical07/campusAuth"
)

func cred(id, username, email string) campusAuth.Credential {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return campusAuth.Credential{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$stub",
		Role:         campusAuth.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Save(ctx, cred("1", "alice", "alice@campus.edu")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got.ID != "1" || got.Email != "alice@campus.edu" {
		t.Fatalf("unexpected credential: %+v", got)
	}

	if _, err := s.FindByUsername(ctx, "bob"); !errors.Is(err, campusAuth.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}

	if ok, _ := s.ExistsByEmail(ctx, "ALICE@campus.edu"); !ok {
		t.Fatal("email lookups must ignore case")
	}
}

func TestSaveRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.Save(ctx, cred("1", "alice", "alice@campus.edu"))

	if _, err := s.Save(ctx, cred("2", "alice", "other@campus.edu")); !errors.Is(err, campusAuth.ErrDuplicateUsername) {
		t.Fatalf("expected duplicate username, got %v", err)
	}
	if _, err := s.Save(ctx, cred("3", "bob", "Alice@Campus.edu")); !errors.Is(err, campusAuth.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 credential, got %d", s.Len())
	}
}

func TestSaveUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	s := New()
	orig, _ := s.Save(ctx, cred("1", "alice", "alice@campus.edu"))

	upd := orig
	upd.PasswordHash = "$argon2id$new"
	upd.Email = "alice@uni.edu"
	upd.CreatedAt = time.Time{}
	if _, err := s.Save(ctx, upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.FindByUsername(ctx, "alice")
	if got.PasswordHash != "$argon2id$new" || !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Fatalf("unexpected update result: %+v", got)
	}
	if ok, _ := s.ExistsByEmail(ctx, "alice@campus.edu"); ok {
		t.Fatal("old email index must be released")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.Save(ctx, cred("1", "alice", "alice@campus.edu"))

	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.ExistsByUsername(ctx, "alice"); ok {
		t.Fatal("username must be free after delete")
	}
	if err := s.Delete(ctx, "1"); !errors.Is(err, campusAuth.ErrCredentialNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestConcurrentSameUsernameExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	s := New()

	const n = 32
	var wins, dups atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Save(ctx, cred(fmt.Sprintf("id-%d", i), "alice", fmt.Sprintf("a%d@campus.edu", i)))
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, campusAuth.ErrDuplicateUsername):
				dups.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins.Load() != 1 || dups.Load() != n-1 {
		t.Fatalf("expected 1 win and %d duplicates, got %d/%d", n-1, wins.Load(), dups.Load())
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().FindByUsername(ctx, "alice"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
