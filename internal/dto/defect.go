package dto

import "time"

// CreateDefectRequest reports a new defect. The client supplies the id so
// that offline-capable UIs can retry safely; a repeated POST with the same
// id returns the already-created record.
type CreateDefectRequest struct {
	ID            string `json:"id"             binding:"required,uuid"`
	VesselIMO     string `json:"vessel_imo"     binding:"omitempty,len=7,numeric"`
	Title         string `json:"title"          binding:"required"`
	EquipmentName string `json:"equipment_name" binding:"required"`
	Description   string `json:"description"    binding:"required"`

	DefectSource   string  `json:"defect_source"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	Responsibility *string `json:"responsibility"`
	PrStatus       *string `json:"pr_status"`

	BeforeImageRequired bool    `json:"before_image_required"`
	AfterImageRequired  bool    `json:"after_image_required"`
	BeforeImagePath     *string `json:"before_image_path"`
	AfterImagePath      *string `json:"after_image_path"`

	DateIdentified  *time.Time `json:"date_identified"`
	TargetCloseDate *time.Time `json:"target_close_date"`
	JSONBackupPath  *string    `json:"json_backup_path"`
}

// UpdateDefectRequest is a partial patch; nil fields are left untouched.
type UpdateDefectRequest struct {
	Title          *string `json:"title"`
	EquipmentName  *string `json:"equipment_name"`
	Description    *string `json:"description"`
	DefectSource   *string `json:"defect_source"`
	Priority       *string `json:"priority"`
	Status         *string `json:"status"`
	Responsibility *string `json:"responsibility"`
	PrStatus       *string `json:"pr_status"`

	BeforeImageRequired *bool   `json:"before_image_required"`
	AfterImageRequired  *bool   `json:"after_image_required"`
	BeforeImagePath     *string `json:"before_image_path"`
	AfterImagePath      *string `json:"after_image_path"`

	DateIdentified  *time.Time `json:"date_identified"`
	TargetCloseDate *time.Time `json:"target_close_date"`
}

// CloseDefectRequest carries the mandatory closure evidence.
type CloseDefectRequest struct {
	ClosureRemarks     string `json:"closure_remarks"      binding:"required"`
	ClosureImageBefore string `json:"closure_image_before" binding:"required"`
	ClosureImageAfter  string `json:"closure_image_after"  binding:"required"`
}

// DefectResponse is the defect view returned to the UI.
type DefectResponse struct {
	ID            string `json:"id"`
	VesselIMO     string `json:"vessel_imo"`
	ReportedByID  string `json:"reported_by_id"`
	Title         string `json:"title"`
	EquipmentName string `json:"equipment_name"`
	Description   string `json:"description"`

	DefectSource   string  `json:"defect_source"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	Responsibility *string `json:"responsibility,omitempty"`
	PrStatus       *string `json:"pr_status,omitempty"`

	BeforeImageRequired bool    `json:"before_image_required"`
	AfterImageRequired  bool    `json:"after_image_required"`
	BeforeImagePath     *string `json:"before_image_path,omitempty"`
	AfterImagePath      *string `json:"after_image_path,omitempty"`

	DateIdentified  *time.Time `json:"date_identified,omitempty"`
	TargetCloseDate *time.Time `json:"target_close_date,omitempty"`

	ClosedAt           *time.Time `json:"closed_at,omitempty"`
	ClosedByID         *string    `json:"closed_by_id,omitempty"`
	ClosureRemarks     *string    `json:"closure_remarks,omitempty"`
	ClosureImageBefore *string    `json:"closure_image_before,omitempty"`
	ClosureImageAfter  *string    `json:"closure_image_after,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreatePrEntryRequest links a procurement request to a defect.
type CreatePrEntryRequest struct {
	PrNumber      string  `json:"pr_number" binding:"required"`
	PrDescription *string `json:"pr_description"`
}

// PrEntryResponse is the PR entry view returned to the UI.
type PrEntryResponse struct {
	ID            string    `json:"id"`
	DefectID      string    `json:"defect_id"`
	PrNumber      string    `json:"pr_number"`
	PrDescription *string   `json:"pr_description,omitempty"`
	CreatedByID   *string   `json:"created_by_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
