// Package memstore is an in-memory [campusAuth.CredentialStore] for tests,
// examples and single-process development servers.
package memstore

import (
	"context"
	"strings"
	"sync"

	campusAuth "github.com/MrEthical07/campusAuth"
)

// Store keeps credentials in maps guarded by one RWMutex. Username and
// email uniqueness are checked and claimed under the same write lock.
type Store struct {
	mu         sync.RWMutex
	byID       map[string]campusAuth.Credential
	byUsername map[string]string
	byEmail    map[string]string
}

var _ campusAuth.CredentialStore = (*Store)(nil)

func New() *Store {
	return &Store{
		byID:       make(map[string]campusAuth.Credential),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (s *Store) FindByUsername(ctx context.Context, username string) (campusAuth.Credential, error) {
	if err := ctx.Err(); err != nil {
		return campusAuth.Credential{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return campusAuth.Credential{}, campusAuth.ErrCredentialNotFound
	}
	return s.byID[id], nil
}

func (s *Store) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byUsername[username]
	return ok, nil
}

func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byEmail[emailKey(email)]
	return ok, nil
}

// Save inserts cred, or replaces the credential with the same ID.
func (s *Store) Save(ctx context.Context, cred campusAuth.Credential) (campusAuth.Credential, error) {
	if err := ctx.Err(); err != nil {
		return campusAuth.Credential{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.byUsername[cred.Username]; ok && owner != cred.ID {
		return campusAuth.Credential{}, campusAuth.ErrDuplicateUsername
	}
	if owner, ok := s.byEmail[emailKey(cred.Email)]; ok && owner != cred.ID {
		return campusAuth.Credential{}, campusAuth.ErrDuplicateEmail
	}

	if prev, ok := s.byID[cred.ID]; ok {
		delete(s.byUsername, prev.Username)
		delete(s.byEmail, emailKey(prev.Email))
		cred.CreatedAt = prev.CreatedAt
	}

	s.byID[cred.ID] = cred
	s.byUsername[cred.Username] = cred.ID
	s.byEmail[emailKey(cred.Email)] = cred.ID
	return cred, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byID[id]
	if !ok {
		return campusAuth.ErrCredentialNotFound
	}
	delete(s.byID, id)
	delete(s.byUsername, cred.Username)
	delete(s.byEmail, emailKey(cred.Email))
	return nil
}

// Len reports how many credentials are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
