package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang-exercisetracker/apperror"
	"golang-exercisetracker/database"
	"golang-exercisetracker/models"
)

// UserStore persists users. InsertUser must enforce username uniqueness
// itself and report a violation as database.ErrDuplicateKey.
type UserStore interface {
	InsertUser(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type UserService struct {
	store UserStore
	opts  Options
}

func NewUserService(store UserStore, opts Options) *UserService {
	return &UserService{store: store, opts: opts.withDefaults()}
}

type createUserInput struct {
	Username string `json:"username" validate:"notblank"`
}

// Create registers username. There is no existence pre-check: the store's
// unique index decides, so two concurrent registrations cannot both win.
func (s *UserService) Create(ctx context.Context, username string) (models.User, error) {
	in := createUserInput{Username: strings.TrimSpace(username)}
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	user, err := s.store.InsertUser(ctx, in.Username)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			s.opts.Metrics.RecordDuplicateUsername()
			s.opts.Logger.Info("username already taken", slog.String("username", in.Username))
			return models.User{}, apperror.NewDuplicateError(msgUsernameTaken, err)
		}
		return models.User{}, storeUnavailable(s.opts.Logger, "create user", err)
	}

	s.opts.Metrics.RecordUserCreated()
	s.opts.Logger.Info("user created", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// List returns every user reduced to id and username.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeUnavailable(s.opts.Logger, "list users", err)
	}

	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, models.User{ID: u.ID, Username: u.Username})
	}
	return out, nil
}

// FindByID resolves a user. Malformed ids are indistinguishable from
// unknown ones.
func (s *UserService) FindByID(ctx context.Context, id string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	user, err := s.store.FindUserByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.User{}, apperror.NewNotFoundError(msgUserNotFound, err)
		}
		return models.User{}, storeUnavailable(s.opts.Logger, "find user", err)
	}
	return user, nil
}
