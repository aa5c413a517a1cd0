package model

import (
	"regexp"
	"time"
)

var imoPattern = regexp.MustCompile(`^\d{7}$`)

// ValidIMO reports whether s is a 7-digit IMO number.
func ValidIMO(s string) bool { return imoPattern.MatchString(s) }

// Vessel is a ship in the managed fleet, keyed by its worldwide-unique
// 7-digit IMO number.
type Vessel struct {
	IMO        string    `gorm:"type:varchar(7);primaryKey"        json:"imo"`
	Name       string    `gorm:"type:varchar(100);not null"        json:"name"`
	Code       string    `gorm:"type:varchar(3);index"             json:"code"` // short UI code, e.g. "ALF"
	VesselType string    `gorm:"type:varchar(50)"                  json:"vessel_type"`
	Email      *string   `gorm:"type:varchar(255)"                 json:"email,omitempty"` // ship's own mailbox
	IsActive   bool      `gorm:"not null;default:true"             json:"is_active"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Users []User `gorm:"many2many:user_vessel_link;foreignKey:IMO;joinForeignKey:VesselIMO;references:UserID;joinReferences:UserID" json:"-"`
}

// TableName sets the table name.
func (Vessel) TableName() string { return "vessels" }
