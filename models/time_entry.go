package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HoursPerDay is the display convention for one nominal working day.
// Conversions (hours / 8 -> days) happen only at presentation time.
const HoursPerDay = 8.0

// TimeEntry is one CRA row: hours worked by a developer on a task on a
// given calendar date. Entries are immutable once created; the only
// mutation is deletion.
type TimeEntry struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TaskID      primitive.ObjectID `json:"taskId" bson:"taskId"`
	DeveloperID primitive.ObjectID `json:"developerId" bson:"developerId"`
	Date        time.Time          `json:"date" bson:"date"`
	Hours       float64            `json:"hours" bson:"hours"`
	Comment     string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// DateOnly truncates a timestamp to its calendar date at midnight UTC.
// Time entries are keyed at day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
