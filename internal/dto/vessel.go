package dto

import "time"

// CreateVesselRequest registers a vessel. The IMO number must be exactly
// seven digits.
type CreateVesselRequest struct {
	IMO        string  `json:"imo"         binding:"required,len=7,numeric"`
	Name       string  `json:"name"        binding:"required"`
	Code       string  `json:"code"        binding:"omitempty,max=3"`
	VesselType string  `json:"vessel_type"`
	Email      *string `json:"email"       binding:"omitempty,email"`
}

// VesselResponse is the vessel view returned to the UI.
type VesselResponse struct {
	IMO        string    `json:"imo"`
	Name       string    `json:"name"`
	Code       string    `json:"code,omitempty"`
	VesselType string    `json:"vessel_type,omitempty"`
	Email      *string   `json:"email,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
