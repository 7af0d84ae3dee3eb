package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"golang-exercisetracker/models"
)

type exerciseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Description string             `bson:"description"`
	Duration    int                `bson:"duration"`
	Date        time.Time          `bson:"date"`
}

func (d exerciseDocument) toModel() models.Exercise {
	return models.Exercise{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Description: d.Description,
		Duration:    d.Duration,
		Date:        d.Date.UTC(),
	}
}

type ExerciseRepository struct {
	collection *mongo.Collection
}

func NewExerciseRepository(db *mongo.Database) *ExerciseRepository {
	return &ExerciseRepository{collection: OpenCollection(db, ExerciseCollection)}
}

func (r *ExerciseRepository) InsertExercise(ctx context.Context, ex models.Exercise) (models.Exercise, error) {
	userID, err := primitive.ObjectIDFromHex(ex.UserID)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("insert exercise for user %q: %w", ex.UserID, ErrNotFound)
	}

	doc := exerciseDocument{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Description: ex.Description,
		Duration:    ex.Duration,
		// Mongo stores millisecond precision.
		Date: ex.Date.UTC().Truncate(time.Millisecond),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return models.Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}

	return doc.toModel(), nil
}

// FindExercises returns at most filter.Limit exercises ordered by date, then
// by insertion.
func (r *ExerciseRepository) FindExercises(ctx context.Context, filter models.LogFilter) ([]models.Exercise, error) {
	query, err := buildLogQuery(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []exerciseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode exercises: %w", err)
	}

	exercises := make([]models.Exercise, 0, len(docs))
	for _, d := range docs {
		exercises = append(exercises, d.toModel())
	}
	return exercises, nil
}

// buildLogQuery composes the equality match on userId with the optional,
// independent date bounds.
func buildLogQuery(filter models.LogFilter) (bson.M, error) {
	userID, err := primitive.ObjectIDFromHex(filter.UserID)
	if err != nil {
		return nil, fmt.Errorf("find exercises for user %q: %w", filter.UserID, ErrNotFound)
	}

	query := bson.M{"userId": userID}

	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = filter.From.UTC()
	}
	if filter.To != nil {
		dateRange["$lte"] = filter.To.UTC()
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	return query, nil
}
