package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusWaiting      TaskStatus = "waiting"
	StatusToPrioritize TaskStatus = "to prioritize"
	StatusToDo         TaskStatus = "to do"
	StatusInProgress   TaskStatus = "in progress"
	StatusInTest       TaskStatus = "in test"
	StatusDone         TaskStatus = "done"
)

// StatusOrder is the fixed forward order of the board columns.
var StatusOrder = []TaskStatus{
	StatusWaiting,
	StatusToPrioritize,
	StatusToDo,
	StatusInProgress,
	StatusInTest,
	StatusDone,
}

// Rank returns the position of the status in StatusOrder, or -1 if unknown.
func (s TaskStatus) Rank() int {
	for i, st := range StatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s TaskStatus) IsValid() bool {
	return s.Rank() >= 0
}

type RequestType string

const (
	RequestDevelopment RequestType = "development"
	RequestEvolution   RequestType = "evolution"
	RequestSupport     RequestType = "support"
	RequestLeave       RequestType = "leave"
	RequestNonWorked   RequestType = "non-worked"
)

type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

type BacklogItem struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title          string              `json:"title" bson:"title"`
	Description    string              `json:"description" bson:"description"`
	RequestType    RequestType         `json:"requestType" bson:"requestType"`
	Priority       Priority            `json:"priority" bson:"priority"`
	Status         TaskStatus          `json:"status" bson:"status"`
	AssigneeID     *primitive.ObjectID `json:"assigneeId,omitempty" bson:"assigneeId,omitempty"`
	ProjectID      *primitive.ObjectID `json:"projectId,omitempty" bson:"projectId,omitempty"`
	EstimatedHours *float64            `json:"estimatedHours,omitempty" bson:"estimatedHours,omitempty"`
	Complexity     *int                `json:"complexity,omitempty" bson:"complexity,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	PlannedStart   *time.Time          `json:"plannedStart,omitempty" bson:"plannedStart,omitempty"`
	ExpectedEnd    *time.Time          `json:"expectedEnd,omitempty" bson:"expectedEnd,omitempty"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
	Archived       bool                `json:"archived" bson:"archived"`

	// ActualHours is derived from the task's time entries. It is refreshed
	// by the time-entry service after every create/delete, never edited
	// directly.
	ActualHours float64 `json:"actualHours" bson:"actualHours"`
}
