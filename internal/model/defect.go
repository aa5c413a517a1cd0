package model

import "time"

// Defect is a reported equipment or operational deficiency, tracked
// through an open → closed lifecycle. Once IsDeleted is set the record is
// excluded from listings but retained for audit.
type Defect struct {
	DefectID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"defect_id"`
	VesselIMO    string `gorm:"type:varchar(7);not null;index"                 json:"vessel_imo"`
	ReportedByID string `gorm:"type:uuid;not null"                             json:"reported_by_id"`

	Title         string       `gorm:"type:varchar(255);not null" json:"title"`
	EquipmentName string       `gorm:"type:varchar(255);not null" json:"equipment_name"`
	Description   string       `gorm:"type:text;not null"         json:"description"`
	DefectSource  DefectSource `gorm:"type:varchar(50);not null;default:'Internal Audit'" json:"defect_source"`

	Priority       DefectPriority `gorm:"type:varchar(20);not null;default:'NORMAL'" json:"priority"`
	Status         DefectStatus   `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	Responsibility *string        `gorm:"type:varchar(100)"                          json:"responsibility,omitempty"`
	PrStatus       *string        `gorm:"type:varchar(50);default:'Not Set'"         json:"pr_status,omitempty"`

	// Image evidence requirements are set shore-side; paths are filled in
	// during creation or update.
	BeforeImageRequired bool    `gorm:"not null;default:false" json:"before_image_required"`
	AfterImageRequired  bool    `gorm:"not null;default:false" json:"after_image_required"`
	BeforeImagePath     *string `gorm:"type:varchar(512)"      json:"before_image_path,omitempty"`
	AfterImagePath      *string `gorm:"type:varchar(512)"      json:"after_image_path,omitempty"`

	DateIdentified  *time.Time `json:"date_identified,omitempty"`
	TargetCloseDate *time.Time `json:"target_close_date,omitempty"`

	// Closure metadata, stamped only by the close operation.
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
	ClosedByID         *string    `gorm:"type:uuid"         json:"closed_by_id,omitempty"`
	ClosureRemarks     *string    `gorm:"type:text"         json:"closure_remarks,omitempty"`
	ClosureImageBefore *string    `gorm:"type:varchar(512)" json:"closure_image_before,omitempty"`
	ClosureImageAfter  *string    `gorm:"type:varchar(512)" json:"closure_image_after,omitempty"`

	JSONBackupPath *string `gorm:"type:varchar(512)"      json:"json_backup_path,omitempty"`
	IsDeleted      bool    `gorm:"not null;default:false" json:"is_deleted"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Vessel    *Vessel   `gorm:"foreignKey:VesselIMO;references:IMO"     json:"vessel,omitempty"`
	Reporter  *User     `gorm:"foreignKey:ReportedByID;references:UserID" json:"reporter,omitempty"`
	ClosedBy  *User     `gorm:"foreignKey:ClosedByID;references:UserID"  json:"closed_by,omitempty"`
	Threads   []Thread  `gorm:"foreignKey:DefectID;constraint:OnDelete:CASCADE" json:"threads,omitempty"`
	PrEntries []PrEntry `gorm:"foreignKey:DefectID;constraint:OnDelete:CASCADE" json:"pr_entries,omitempty"`
}

// TableName sets the table name.
func (Defect) TableName() string { return "defects" }

// Closeable reports whether the defect can still transition to CLOSED.
func (d *Defect) Closeable() bool {
	return d.Status == StatusOpen || d.Status == StatusInProgress
}

// Thread is a chat-style message attached to a defect, either
// user-authored or system-generated.
type Thread struct {
	ThreadID        string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"thread_id"`
	DefectID        string      `gorm:"type:uuid;not null;index"                       json:"defect_id"`
	UserID          string      `gorm:"type:uuid;not null"                             json:"user_id"`
	AuthorRole      string      `gorm:"type:varchar(100);not null"                     json:"author_role"`
	Body            string      `gorm:"type:text;not null"                             json:"body"`
	IsSystemMessage bool        `gorm:"not null;default:false"                         json:"is_system_message"`
	TaggedUserIDs   StringArray `gorm:"type:text[];default:'{}'"                       json:"tagged_user_ids"`
	CreatedAt       time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Attachments []Attachment `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"attachments"`
}

// TableName sets the table name.
func (Thread) TableName() string { return "threads" }

// MaxAttachmentSize caps attachment file size at 1 MiB.
const MaxAttachmentSize = 1 << 20

// Attachment is file metadata for a blob uploaded against a thread.
type Attachment struct {
	AttachmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attachment_id"`
	ThreadID     string    `gorm:"type:uuid;not null;index"                       json:"thread_id"`
	FileName     string    `gorm:"type:varchar(255);not null"                     json:"file_name"`
	FileSize     int64     `json:"file_size"`
	ContentType  string    `gorm:"type:varchar(100)"                              json:"content_type"`
	BlobPath     string    `gorm:"type:varchar(512);not null"                     json:"blob_path"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (Attachment) TableName() string { return "attachments" }

// PrEntry is a procurement-request reference linked to a defect's
// remediation, created and deleted independently of the lifecycle.
type PrEntry struct {
	PrEntryID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"pr_entry_id"`
	DefectID      string    `gorm:"type:uuid;not null;index"                       json:"defect_id"`
	PrNumber      string    `gorm:"type:varchar(100);not null"                     json:"pr_number"`
	PrDescription *string   `gorm:"type:varchar(512)"                              json:"pr_description,omitempty"`
	CreatedByID   *string   `gorm:"type:uuid"                                      json:"created_by_id,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (PrEntry) TableName() string { return "pr_entries" }
