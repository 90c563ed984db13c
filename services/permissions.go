package services

import (
	"context"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PermissionProvider answers capability questions for the engines. The
// concrete implementation maps user roles; tests may stub it.
type PermissionProvider interface {
	IsAdministrator(ctx context.Context, userID primitive.ObjectID) (bool, error)
	CanDeleteTimeEntry(ctx context.Context, userID primitive.ObjectID, entry *models.TimeEntry) (bool, error)
}

// RolePermissions derives capabilities from the stored user role: managers
// are administrator-equivalent, members are developers.
type RolePermissions struct {
	users repositories.UserRepository
}

func NewRolePermissions(users repositories.UserRepository) *RolePermissions {
	return &RolePermissions{users: users}
}

func (p *RolePermissions) IsAdministrator(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	user, err := p.users.GetUserByID(ctx, userID)
	if err != nil {
		return false, storeErr(err, "user %s", userID.Hex())
	}
	return user.Role == models.RoleManager, nil
}

// CanDeleteTimeEntry grants deletion to administrators and to the entry's
// own developer. The right follows the logged developer, not whoever
// created the entry.
func (p *RolePermissions) CanDeleteTimeEntry(ctx context.Context, userID primitive.ObjectID, entry *models.TimeEntry) (bool, error) {
	if entry.DeveloperID == userID {
		return true, nil
	}
	return p.IsAdministrator(ctx, userID)
}
