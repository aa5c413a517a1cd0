package model

import "time"

// User is an account on either the fleet or the shore side.
type User struct {
	UserID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	FullName     string    `gorm:"type:varchar(100);not null"                     json:"full_name"`
	JobTitle     *string   `gorm:"type:varchar(100)"                              json:"job_title,omitempty"` // e.g. "Chief Engineer"
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'VESSEL'"     json:"role"`
	IsActive     bool      `gorm:"not null;default:true"                          json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Vessels []Vessel `gorm:"many2many:user_vessel_link;foreignKey:UserID;joinForeignKey:UserID;references:IMO;joinReferences:VesselIMO" json:"vessels,omitempty"`
}

// TableName sets the table name.
func (User) TableName() string { return "users" }

// VesselIMOs returns the IMO numbers of the user's assigned vessels.
func (u *User) VesselIMOs() []string {
	imos := make([]string, 0, len(u.Vessels))
	for _, v := range u.Vessels {
		imos = append(imos, v.IMO)
	}
	return imos
}

// AssignedTo reports whether the user is linked to the given vessel.
func (u *User) AssignedTo(imo string) bool {
	for _, v := range u.Vessels {
		if v.IMO == imo {
			return true
		}
	}
	return false
}
