package api

import (
	"github.com/starford/digimark/internal/access"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/service"
)

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Username string `json:"username" example:"admin" validate:"required"`
	Password string `json:"password" example:"password" validate:"required"`
}

// SessionResponse describes the acting user and what they may do. Token is
// only set by login in jwt auth mode.
type SessionResponse struct {
	User         models.User         `json:"user" validate:"required"`
	Capabilities access.Capabilities `json:"capabilities" validate:"required"`
	Token        string              `json:"token,omitempty" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// CategorySchema lists the channels of one category.
type CategorySchema struct {
	Category models.Category  `json:"category" example:"Paid Ads" validate:"required"`
	Channels []models.Channel `json:"channels" validate:"required"`
}

// SchemaResponse is the static channel registry.
type SchemaResponse struct {
	Categories []CategorySchema                        `json:"categories" validate:"required"`
	Fields     map[models.Channel][]models.MetricField `json:"fields" validate:"required"`
	Objectives []models.Objective                      `json:"objectives" validate:"required"`
}

// RecordRequest is the request body for creating or replacing a record.
type RecordRequest = service.RecordInput

// RecordListResponse wraps record listings.
type RecordListResponse struct {
	Records []models.MarketingRecord `json:"records" validate:"required"`
	Total   int                      `json:"total" example:"42" validate:"required"`
}

// TaskRequest is the request body for creating a task.
type TaskRequest = service.TaskInput

// MoveTaskRequest is the request body for moving a task to another column.
type MoveTaskRequest struct {
	Status models.TaskStatus `json:"status" example:"in-progress" validate:"required"`
}

// TaskListResponse holds the board both flat and grouped by status.
type TaskListResponse struct {
	Tasks   []models.Task                       `json:"tasks" validate:"required"`
	Columns map[models.TaskStatus][]models.Task `json:"columns" validate:"required"`
}

// CreateUserRequest is the request body for creating an account.
type CreateUserRequest struct {
	Username string      `json:"username" example:"budi" validate:"required"`
	Password string      `json:"password" example:"secret" validate:"required"`
	Role     models.Role `json:"role" example:"ads_specialist" validate:"required"`
}

// UpdateUserRequest is the request body for changing role and/or password.
type UpdateUserRequest struct {
	Role     *models.Role `json:"role,omitempty" example:"admin"`
	Password *string      `json:"password,omitempty" example:"secret"`
}

// UserListResponse wraps account listings.
type UserListResponse struct {
	Users []models.User `json:"users" validate:"required"`
}
