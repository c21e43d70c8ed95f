package models

import (
	"time"

	"gorm.io/gorm"
)

// JoinCodeLength is the length of a project's join code.
const JoinCodeLength = 8

// Project represents a shared workspace bounded to a fixed team size.
//
// MemberCount mirrors the number of ProjectMember rows and is the column
// the admission conditional update is evaluated against; it is never
// written outside the store's admission and creation paths.
//
// The join_code unique index is declared without a soft-delete scope on
// purpose: rows of deleted projects keep their code reserved, so a stale
// invite link can never admit anyone into a newer project.
type Project struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	TeamSize    int            `json:"teamSize" gorm:"not null"`
	MemberCount int            `json:"memberCount" gorm:"not null;default:0"`
	JoinCode    string         `json:"joinCode" gorm:"uniqueIndex;size:8;not null"`
	OwnerID     string         `json:"ownerId" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Owner   User            `json:"-" gorm:"foreignKey:OwnerID"`
	Members []ProjectMember `json:"members,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Files   []ProjectFile   `json:"files,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Tasks   []Task          `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectMember is one row of a project's member set. The composite
// unique index backstops duplicate admission; CreatedAt carries the join
// order the API reports members in.
type ProjectMember struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID string    `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_project_member"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_project_member"`
	CreatedAt time.Time `json:"joinedAt"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName sets the table name for ProjectMember model
func (ProjectMember) TableName() string {
	return "project_members"
}

// ProjectFile is the stored metadata of an uploaded file. The blob
// itself lives with the storage collaborator; only the path is kept.
type ProjectFile struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID   string    `json:"projectId" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Size        int64     `json:"size" gorm:"not null"`
	ContentType string    `json:"type" gorm:"not null"`
	Path        string    `json:"path" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
}
