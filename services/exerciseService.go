package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"golang-exercisetracker/apperror"
	"golang-exercisetracker/helpers"
	"golang-exercisetracker/models"
)

// DefaultLogLimit caps a log query when the caller gives no usable limit.
const DefaultLogLimit = 100

type ExerciseStore interface {
	InsertExercise(ctx context.Context, ex models.Exercise) (models.Exercise, error)
	FindExercises(ctx context.Context, filter models.LogFilter) ([]models.Exercise, error)
}

// UserFinder resolves the user an exercise refers to. *UserService
// satisfies it.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

type ExerciseService struct {
	users UserFinder
	store ExerciseStore
	opts  Options
	now   func() time.Time
}

type ExerciseOption func(*ExerciseService)

// WithClock replaces the clock used for the default exercise date.
func WithClock(now func() time.Time) ExerciseOption {
	return func(s *ExerciseService) { s.now = now }
}

func NewExerciseService(users UserFinder, store ExerciseStore, opts Options, extra ...ExerciseOption) *ExerciseService {
	s := &ExerciseService{
		users: users,
		store: store,
		opts:  opts.withDefaults(),
		now:   time.Now,
	}
	for _, o := range extra {
		o(s)
	}
	return s
}

type AddExerciseInput struct {
	UserID      string `json:"userId"`
	Description string `json:"description" validate:"notblank"`
	Duration    string `json:"duration" validate:"notblank"`
	Date        string `json:"date"`
}

// AddExercise validates the input, checks that the user exists and only
// then writes. An unparseable date is treated as absent.
func (s *ExerciseService) AddExercise(ctx context.Context, in AddExerciseInput) (models.ExerciseResponse, error) {
	if err := validateStruct(in); err != nil {
		return models.ExerciseResponse{}, err
	}
	duration, err := parseDuration(in.Duration)
	if err != nil {
		return models.ExerciseResponse{}, err
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return models.ExerciseResponse{}, err
	}

	date, ok := helpers.ParseDate(in.Date)
	if !ok {
		date = s.now().UTC()
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	saved, err := s.store.InsertExercise(storeCtx, models.Exercise{
		UserID:      user.ID,
		Description: in.Description,
		Duration:    duration,
		Date:        date,
	})
	if err != nil {
		return models.ExerciseResponse{}, storeUnavailable(s.opts.Logger, "add exercise", err)
	}

	s.opts.Metrics.RecordExerciseLogged()
	s.opts.Logger.Debug("exercise logged",
		slog.String("user_id", user.ID),
		slog.String("exercise_id", saved.ID),
		slog.Int("duration", saved.Duration),
	)

	return models.ExerciseResponse{
		Username:    user.Username,
		ID:          user.ID,
		Description: saved.Description,
		Duration:    saved.Duration,
		Date:        helpers.FormatDate(saved.Date),
	}, nil
}

type LogInput struct {
	UserID string
	From   string
	To     string
	Limit  string
}

// GetLog returns the user's exercises within the optional inclusive date
// range, capped at the requested limit or DefaultLogLimit.
func (s *ExerciseService) GetLog(ctx context.Context, in LogInput) (models.LogResponse, error) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return models.LogResponse{}, err
	}

	filter := BuildLogFilter(user.ID, in.From, in.To, in.Limit)

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	exercises, err := s.store.FindExercises(storeCtx, filter)
	if err != nil {
		return models.LogResponse{}, storeUnavailable(s.opts.Logger, "get log", err)
	}

	// The store applies the cap; this guards against one that does not.
	if len(exercises) > filter.Limit {
		exercises = exercises[:filter.Limit]
	}

	entries := make([]models.LogEntry, 0, len(exercises))
	for _, ex := range exercises {
		entries = append(entries, models.LogEntry{
			Description: ex.Description,
			Duration:    ex.Duration,
			Date:        helpers.FormatDate(ex.Date),
		})
	}

	s.opts.Metrics.RecordLogQuery(len(entries))

	return models.LogResponse{
		ID:       user.ID,
		Username: user.Username,
		Count:    len(entries),
		Log:      entries,
	}, nil
}

// BuildLogFilter composes the log query. Each bound applies only when it
// parses; malformed bounds are ignored rather than rejected. The limit is
// always set.
func BuildLogFilter(userID, from, to, limit string) models.LogFilter {
	filter := models.LogFilter{UserID: userID, Limit: parseLimit(limit)}

	if t, ok := helpers.ParseDate(from); ok {
		filter.From = &t
	}
	if t, ok := helpers.ParseDate(to); ok {
		filter.To = &t
	}
	return filter
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultLogLimit
	}
	return n
}

const msgInvalidDuration = "duration must be a positive whole number of minutes"

// parseDuration accepts "30", " 30 " and "30.0"; fractional, zero and
// negative values are rejected.
func parseDuration(raw string) (int, error) {
	raw = strings.TrimSpace(raw)

	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 {
			return 0, apperror.NewValidationError(msgInvalidDuration, nil)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, apperror.NewValidationError(msgInvalidDuration, fmt.Errorf("duration %q", raw))
	}
	return int(f), nil
}
