package dto

import "time"

// TaskResponse is the mention-task view returned to the UI.
type TaskResponse struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	DefectID     *string   `json:"defect_id,omitempty"`
	CreatedByID  *string   `json:"created_by_id,omitempty"`
	AssignedToID string    `json:"assigned_to_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NotificationResponse is the in-app alert view returned to the UI.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"is_read"`
	IsSeen    bool      `json:"is_seen"`
	CreatedAt time.Time `json:"created_at"`
}
