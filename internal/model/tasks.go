package model

import "time"

// Task is an assignment generated when a user is tagged in a thread.
type Task struct {
	TaskID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Description  string     `gorm:"type:varchar(512);not null"                     json:"description"`
	Status       TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	DefectID     *string    `gorm:"type:uuid"                                      json:"defect_id,omitempty"`
	CreatedByID  *string    `gorm:"type:uuid"                                      json:"created_by_id,omitempty"`  // who tagged
	AssignedToID string     `gorm:"type:uuid;index"                                json:"assigned_to_id"` // who was tagged
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (Task) TableName() string { return "tasks" }

// Notification is a per-user alert with a deep link into the UI.
type Notification struct {
	NotificationID string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string           `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Type           NotificationType `gorm:"type:varchar(20);not null;default:'SYSTEM'"     json:"type"`
	Title          string           `gorm:"type:varchar(200);not null"                     json:"title"`
	Message        string           `gorm:"type:varchar(512);not null"                     json:"message"`
	Link           string           `gorm:"type:varchar(512)"                              json:"link"`
	IsRead         bool             `gorm:"not null;default:false"                         json:"is_read"`
	IsSeen         bool             `gorm:"not null;default:false"                         json:"is_seen"` // clears the badge
	CreatedAt      time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (Notification) TableName() string { return "notifications" }
