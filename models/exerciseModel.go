package models

import (
	"encoding/json"
	"time"
)

// Exercise is one logged activity. UserID is a weak reference: the store does
// not enforce it, the exercise service does.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	Duration    int
	Date        time.Time
}

// LogFilter selects a user's exercises. From and To are inclusive bounds and
// are applied only when non-nil. Limit is always positive once built by the
// exercise service.
type LogFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// AddExerciseRequest accepts both form posts and JSON bodies. Duration is a
// json.Number so that 45 and "45" both bind.
type AddExerciseRequest struct {
	Description string      `json:"description" form:"description"`
	Duration    json.Number `json:"duration" form:"duration"`
	Date        string      `json:"date" form:"date"`
}

type LogQuery struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit string `form:"limit"`
}

type ExerciseResponse struct {
	Username    string `json:"username"`
	ID          string `json:"_id"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

type LogResponse struct {
	ID       string     `json:"_id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}
