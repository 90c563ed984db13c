package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/logging"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	var input services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := h.service.CreateTask(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created", task.ID.Hex())

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	tasks, err := h.service.GetAllTasks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tasks)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "invalid task ID format", http.StatusBadRequest)
		return
	}
	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}

// GetBoard returns the non-archived tasks grouped by status together with
// the WIP alerts for over-capacity columns.
func (h *TaskHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	board, err := h.service.Board(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	alerts, err := h.service.WIPAlerts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"board":     board,
		"wipAlerts": alerts,
	})
}

func (h *TaskHandler) GetTaskMetrics(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "invalid task ID format", http.StatusBadRequest)
		return
	}
	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.service.Metrics(task))
}

// MoveForward advances the task one column; members move their own work.
func (h *TaskHandler) MoveForward(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.service.MoveForward)
}

func (h *TaskHandler) MoveBackward(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.service.MoveBackward)
}

func (h *TaskHandler) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, taskID primitive.ObjectID) (*models.BacklogItem, error)) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "invalid task ID format", http.StatusBadRequest)
		return
	}
	task, err := op(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s is now %q", task.ID.Hex(), task.Status)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}

// SetWaiting pulls a task out of the active flow. Administrator only; the
// service re-checks the role against the stored user.
func (h *TaskHandler) SetWaiting(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, taskID, actor primitive.ObjectID) (*models.BacklogItem, error) {
		return h.service.SetWaiting(ctx, taskID, actor)
	})
}

func (h *TaskHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Target models.TaskStatus `json:"target"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	h.adminTransition(w, r, func(ctx context.Context, taskID, actor primitive.ObjectID) (*models.BacklogItem, error) {
		return h.service.Reactivate(ctx, taskID, actor, body.Target)
	})
}

func (h *TaskHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, taskID, actor primitive.ObjectID) (*models.BacklogItem, error) {
		return h.service.Archive(ctx, taskID, actor)
	})
}

func (h *TaskHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, taskID, actor primitive.ObjectID) (*models.BacklogItem, error) {
		return h.service.Unarchive(ctx, taskID, actor)
	})
}

func (h *TaskHandler) adminTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, taskID, actor primitive.ObjectID) (*models.BacklogItem, error)) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "invalid task ID format", http.StatusBadRequest)
		return
	}
	task, err := op(r.Context(), taskID, actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) AssignDeveloper(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	vars := mux.Vars(r)
	taskID, err := primitive.ObjectIDFromHex(vars["taskID"])
	if err != nil {
		http.Error(w, "invalid task ID format", http.StatusBadRequest)
		return
	}
	developerID, err := primitive.ObjectIDFromHex(vars["developerID"])
	if err != nil {
		http.Error(w, "invalid developer ID format", http.StatusBadRequest)
		return
	}
	task, err := h.service.AssignDeveloper(r.Context(), taskID, developerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) UnassignDeveloper(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "invalid task ID format", http.StatusBadRequest)
		return
	}
	task, err := h.service.UnassignDeveloper(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) UpdateEstimate(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "invalid task ID format", http.StatusBadRequest)
		return
	}
	var body struct {
		EstimatedHours *float64 `json:"estimatedHours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task, err := h.service.UpdateEstimate(r.Context(), taskID, body.EstimatedHours)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}
