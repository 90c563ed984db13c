package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TimeEntryRepo struct {
	collection *mongo.Collection
}

func NewTimeEntryRepo(collection *mongo.Collection) *TimeEntryRepo {
	return &TimeEntryRepo{collection: collection}
}

// GetTimeEntries returns entries matching the filter, ordered by date
// ascending then creation order.
func (r *TimeEntryRepo) GetTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]*models.TimeEntry, error) {
	query := bson.M{}
	if filter.TaskID != nil {
		query["taskId"] = *filter.TaskID
	}
	if filter.DeveloperID != nil {
		query["developerId"] = *filter.DeveloperID
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = models.DateOnly(*filter.From)
		}
		if filter.To != nil {
			dateRange["$lte"] = models.DateOnly(*filter.To)
		}
		query["date"] = dateRange
	}

	sort := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, query, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve time entries: %v", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.TimeEntry
	for cursor.Next(ctx) {
		var entry models.TimeEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode time entry: %v", err)
		}
		entries = append(entries, &entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return entries, nil
}

func (r *TimeEntryRepo) GetTimeEntryByID(ctx context.Context, id primitive.ObjectID) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve time entry: %v", err)
	}
	return &entry, nil
}

func (r *TimeEntryRepo) SaveTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert time entry: %v", err)
	}
	return nil
}

func (r *TimeEntryRepo) DeleteTimeEntry(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
