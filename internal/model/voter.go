package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level of a voter.
type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

// DefaultImage is the profile image assigned when a voter registers without one.
const DefaultImage = "https://media.istockphoto.com/id/1341046662/vector/picture-profile-icon-human-or-people-sign-and-symbol-for-template-design.jpg?s=612x612&w=0&k=20&c=A7z3OK0fElK3tFntKObma-3a7PyO8_2xxW0jtmjzT78="

// Voter is a registered participant. Administrators are voters with RoleAdmin.
type Voter struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey" bson:"_id"`
	Name         string    `json:"name" gorm:"size:255;index" bson:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null" bson:"email"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null" bson:"password"` // Never expose in JSON
	RollNumber   int       `json:"rollnumber" gorm:"column:rollnumber" bson:"rollnumber"`
	Department   string    `json:"department" gorm:"column:department;size:255" bson:"department"`
	Year         int       `json:"year" gorm:"column:year" bson:"year"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:'voter';index" bson:"role"`
	Bio          string    `json:"bio" gorm:"type:text" bson:"bio"`
	Image        string    `json:"image" gorm:"size:512" bson:"image"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin reports whether the voter holds the admin role.
func (v *Voter) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// BeforeCreate sets UUID and defaults before creating the record.
func (v *Voter) BeforeCreate(tx *gorm.DB) error {
	v.ApplyDefaults()
	return nil
}

// ApplyDefaults fills the id, role and image when they are unset.
// The document store has no hooks, so its repository calls this directly.
func (v *Voter) ApplyDefaults() {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Role == "" {
		v.Role = RoleVoter
	}
	if v.Image == "" {
		v.Image = DefaultImage
	}
}

// VoterFilterFields are the fields a voter listing can be filtered on.
// Column, JSON and document field names are identical for all of them except "id".
var VoterFilterFields = map[string]bool{
	"id":         false,
	"name":       false,
	"email":      false,
	"rollnumber": true,
	"department": false,
	"year":       true,
	"role":       false,
	"bio":        false,
	"image":      false,
}

// VoterFilter is an exact-match filter over VoterFilterFields. Values are
// string or int depending on the field.
type VoterFilter map[string]interface{}
