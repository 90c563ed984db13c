package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HolidayRepo struct {
	collection *mongo.Collection
}

func NewHolidayRepo(collection *mongo.Collection) *HolidayRepo {
	return &HolidayRepo{collection: collection}
}

// GetHolidays returns the holiday table for one calendar year, ordered by
// date. The table is reference data; it is read at startup and never
// written by this service.
func (r *HolidayRepo) GetHolidays(ctx context.Context, year int) ([]models.Holiday, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	query := bson.M{"date": bson.M{"$gte": from, "$lt": to}}
	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve holidays: %v", err)
	}
	defer cursor.Close(ctx)

	var holidays []models.Holiday
	for cursor.Next(ctx) {
		var holiday models.Holiday
		if err := cursor.Decode(&holiday); err != nil {
			return nil, fmt.Errorf("failed to decode holiday: %v", err)
		}
		holidays = append(holidays, holiday)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return holidays, nil
}
