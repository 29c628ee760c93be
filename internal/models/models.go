package models

import (
	"strings"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Email        string    `gorm:"size:190;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	AvatarURL    string    `gorm:"size:255" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:190;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Members []ProjectMember `gorm:"constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Stones  []Stone         `gorm:"constraint:OnDelete:CASCADE" json:"stones,omitempty"`
}

type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleMember MemberRole = "MEMBER"
)

type ProjectMember struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ProjectID uint       `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_project_user" json:"user_id"`
	Role      MemberRole `gorm:"size:10;not null;default:MEMBER" json:"role"`
	CreatedAt time.Time  `json:"created_at"`

	User User `json:"user,omitempty"`
}

type StoneStatus string

const (
	StatusToDo       StoneStatus = "TO_DO"
	StatusInProgress StoneStatus = "IN_PROGRESS"
	StatusDone       StoneStatus = "DONE"
)

func (s StoneStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label is the human-readable form used in activity descriptions,
// e.g. IN_PROGRESS -> "in progress".
func (s StoneStatus) Label() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}

type Stone struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	ProjectID  uint        `gorm:"index;not null" json:"project_id"`
	Title      string      `gorm:"size:190;not null" json:"title"`
	Detail     string      `gorm:"type:text" json:"detail"`
	Status     StoneStatus `gorm:"size:20;not null;default:TO_DO" json:"status"`
	AssigneeID *uint       `gorm:"index" json:"assignee_id"`
	CreatedAt  time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Messages []Message `gorm:"constraint:OnDelete:CASCADE" json:"messages"`
}

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoneID   uint      `gorm:"index;not null" json:"stone_id"`
	SenderID  uint      `gorm:"index;not null" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender"`
}

type ActivityType string

const (
	ActivityStoneCompleted ActivityType = "STONE_COMPLETED"
	ActivityStoneUpdated   ActivityType = "STONE_UPDATED"
	ActivityStoneAssigned  ActivityType = "STONE_ASSIGNED"
	ActivityCommentAdded   ActivityType = "COMMENT_ADDED"
	ActivityMemberAdded    ActivityType = "MEMBER_ADDED"
)

// Activity rows are an append-only audit log: created alongside the
// mutation that causes them, never updated or deleted.
type Activity struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Type        ActivityType `gorm:"size:30;not null" json:"type"`
	Description string       `gorm:"size:255;not null" json:"description"`
	ActorID     uint         `gorm:"index;not null" json:"actor_id"`
	ProjectID   uint         `gorm:"index;not null" json:"project_id"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`

	Actor   User    `gorm:"foreignKey:ActorID" json:"actor"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project"`
}
