package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func checkRole(r *http.Request, allowedRoles []string) error {
	userRole := r.Header.Get("Role")
	if userRole == "" {
		return fmt.Errorf("role is missing in request header")
	}
	for _, role := range allowedRoles {
		if role == userRole {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

// actorID reads the acting user's id injected by the JWT middleware.
func actorID(r *http.Request) (primitive.ObjectID, error) {
	raw := r.Header.Get("User-ID")
	if raw == "" {
		return primitive.NilObjectID, fmt.Errorf("user id is missing in request header")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id format: %v", err)
	}
	return id, nil
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Store-layer errors fall through as 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrEmptyPeriod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrTaskArchived):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrPermission):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
