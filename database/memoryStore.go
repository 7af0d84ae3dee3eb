package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"golang-exercisetracker/models"
)

// MemoryStore is an in-process implementation of the user and exercise
// repositories with the same observable semantics as the Mongo ones:
// ObjectID identifiers, a unique username constraint, inclusive date bounds
// and date-then-insertion ordering. It backs local runs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	users      []models.User
	byUsername map[string]struct{}
	exercises  []models.Exercise
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUsername: make(map[string]struct{})}
}

func (s *MemoryStore) InsertUser(ctx context.Context, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[username]; taken {
		return models.User{}, fmt.Errorf("insert user %q: %w", username, ErrDuplicateKey)
	}

	user := models.User{ID: primitive.NewObjectID().Hex(), Username: username}
	s.users = append(s.users, user)
	s.byUsername[username] = struct{}{}
	return user, nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if !primitive.IsValidObjectID(id) {
		return models.User{}, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *MemoryStore) InsertExercise(ctx context.Context, ex models.Exercise) (models.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return models.Exercise{}, err
	}
	if !primitive.IsValidObjectID(ex.UserID) {
		return models.Exercise{}, fmt.Errorf("insert exercise for user %q: %w", ex.UserID, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ex.ID = primitive.NewObjectID().Hex()
	ex.Date = ex.Date.UTC().Truncate(time.Millisecond)
	s.exercises = append(s.exercises, ex)
	return ex, nil
}

func (s *MemoryStore) FindExercises(ctx context.Context, filter models.LogFilter) ([]models.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]models.Exercise, 0)
	for _, ex := range s.exercises {
		if ex.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && ex.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && ex.Date.After(*filter.To) {
			continue
		}
		matched = append(matched, ex)
	}
	s.mu.RUnlock()

	// Stable sort keeps insertion order among equal dates.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// CountUsers and CountExercises let tests assert that failed operations
// leave the store untouched.
func (s *MemoryStore) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *MemoryStore) CountExercises() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exercises)
}

// Ping always succeeds; it satisfies the health check.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
