package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory Store. It mirrors the semantics of
// the SQL schema — unique username and email across active and deactivated
// accounts, monotonically assigned ids that are never reused — and backs the
// unit tests of the services and handlers.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int
	accounts map[int]*Account
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		accounts: make(map[int]*Account),
	}
}

// clone returns a copy so callers never alias the stored struct.
func clone(a *Account) *Account {
	c := *a
	return &c
}

func (s *MemoryStore) Create(ctx context.Context, account *Account) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Username == account.Username {
			return nil, ErrUsernameTaken
		}
	}
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return nil, ErrEmailTaken
		}
	}

	stored := clone(account)
	stored.ID = s.nextID
	s.nextID++
	stored.CreatedAt = time.Now().UTC()
	stored.IsActive = true
	s.accounts[stored.ID] = stored

	return clone(stored), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id int) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(account), nil
}

func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Username == username {
			return clone(account), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Update(ctx context.Context, id int, upd ProfileUpdate) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}

	if upd.Email != nil {
		email := strings.ToLower(*upd.Email)
		for otherID, other := range s.accounts {
			if otherID != id && other.Email == email {
				return nil, ErrEmailTaken
			}
		}
		account.Email = email
	}
	if upd.FirstName != nil {
		account.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		account.LastName = *upd.LastName
	}

	return clone(account), nil
}

func (s *MemoryStore) Deactivate(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.IsActive = false
	return nil
}

func (s *MemoryStore) ListActive(ctx context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accounts []Account
	for _, account := range s.accounts {
		if account.IsActive {
			accounts = append(accounts, *account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// DeleteAll removes every account. The id counter is deliberately not reset:
// ids are never reused, matching the serial column in the SQL schema.
func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make(map[int]*Account)
	return nil
}
