package models

import "time"

// Holiday is one row of the fixed holiday reference table, consumed
// read-only by the calendar service.
type Holiday struct {
	Date time.Time `json:"date" bson:"date"`
	Name string    `json:"name" bson:"name"`
}
