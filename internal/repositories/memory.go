package repositories

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
)

// MemoryUserStore keeps users in process memory. Used by tests and the
// "memory" store driver for local development.
type MemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := NormalizeEmail(u.Email)
	if _, exists := s.byEmail[email]; exists {
		return ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID().Hex()
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = *u
	s.byEmail[email] = u.ID
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemoryUserStore) FindByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (s *MemoryUserStore) Update(_ context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Email != "" {
		email := NormalizeEmail(upd.Email)
		if owner, taken := s.byEmail[email]; taken && owner != id {
			return nil, ErrDuplicateEmail
		}
		delete(s.byEmail, u.Email)
		u.Email = email
		s.byEmail[email] = id
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Mobile != "" {
		u.Mobile = upd.Mobile
	}
	s.users[id] = u
	return &u, nil
}

// Remove deletes a user outright. The API never deletes users; this exists
// so dangling owner references can be exercised.
func (s *MemoryUserStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		delete(s.byEmail, u.Email)
		delete(s.users, id)
	}
}

// MemoryBookStore keeps books in insertion order.
type MemoryBookStore struct {
	mu    sync.RWMutex
	order []string
	books map[string]models.Book
}

func NewMemoryBookStore() *MemoryBookStore {
	return &MemoryBookStore{books: make(map[string]models.Book)}
}

func (s *MemoryBookStore) Create(_ context.Context, b *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = primitive.NewObjectID().Hex()
	b.CreatedAt = time.Now().UTC()
	s.books[b.ID] = *b
	s.order = append(s.order, b.ID)
	return nil
}

func (s *MemoryBookStore) List(_ context.Context) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.books[id])
	}
	return out, nil
}

func (s *MemoryBookStore) FindByID(_ context.Context, id string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *MemoryBookStore) Update(_ context.Context, id string, f models.BookFields) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	b.Title = f.Title
	b.Author = f.Author
	b.Genre = f.Genre
	b.Location = f.Location
	b.Image = f.Image
	s.books[id] = b
	return &b, nil
}

func (s *MemoryBookStore) SetStatus(_ context.Context, id string, status models.BookStatus) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	b.Status = status
	s.books[id] = b
	return &b, nil
}

func (s *MemoryBookStore) DeleteOwned(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok || b.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.books, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
