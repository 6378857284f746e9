package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/tasklog-api/internal/domain"
)

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest defines the payload for the signin endpoint.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a newly created account.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// SignupResponse defines the successful response for the signup endpoint.
type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// SigninUser is the account summary returned with a session token.
type SigninUser struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// SigninResponse defines the successful response for the signin endpoint.
type SigninResponse struct {
	Token string     `json:"token"`
	User  SigninUser `json:"user"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task *domain.Task `json:"task"`
	// Message is set when an update changed nothing.
	Message string `json:"message,omitempty"`
}

// ListMeta is the paging metadata of a task listing.
type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Meta  ListMeta       `json:"meta"`
}

// LogMeta is the paging metadata of an audit log listing.
type LogMeta struct {
	TotalLogs  int `json:"totalLogs"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// LogListResponse is one page of audit entries.
type LogListResponse struct {
	Logs []*domain.AuditLogEntry `json:"logs"`
	Meta LogMeta                 `json:"meta"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Response messages.
const (
	MsgUserCreated     = "User created"
	MsgNoFieldsChanged = "No fields changed"
	MsgDeleted         = "Deleted"
)
