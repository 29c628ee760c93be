// Package stones implements the stone lifecycle: creation, status
// transitions, assignment, and the per-stone message stream. Status
// transitions are unrestricted (any state to any state); every mutation
// that warrants one appends its activity row in the same transaction,
// so the audit log can never trail the state it describes.
package stones

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suryssss/SkillStones-sub001/internal/apperr"
	"github.com/suryssss/SkillStones-sub001/internal/models"
	"github.com/suryssss/SkillStones-sub001/internal/projects"

	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Projects *projects.Service
}

func NewService(db *gorm.DB, projs *projects.Service) *Service {
	return &Service{DB: db, Projects: projs}
}

type CreateInput struct {
	Title  string
	Detail string
	Status models.StoneStatus
}

// Create adds a stone to the project. Status defaults to TO_DO. No
// activity is recorded on creation, only on later transitions.
func (s *Service) Create(userID, projectID uint, in CreateInput) (*models.Stone, error) {
	if err := s.Projects.RequireAccess(userID, projectID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}

	status := in.Status
	if status == "" {
		status = models.StatusToDo
	}
	if !status.Valid() {
		return nil, apperr.Validation("invalid status")
	}

	st := models.Stone{
		ProjectID: projectID,
		Title:     in.Title,
		Detail:    in.Detail,
		Status:    status,
		Messages:  []models.Message{},
	}
	if err := s.DB.Create(&st).Error; err != nil {
		return nil, apperr.Internal("create stone", err)
	}
	return &st, nil
}

// List returns the project's stones newest-created first, with assignee
// profiles loaded for the board.
func (s *Service) List(userID, projectID uint) ([]models.Stone, error) {
	if err := s.Projects.RequireAccess(userID, projectID); err != nil {
		return nil, err
	}

	stns := []models.Stone{}
	err := s.DB.Where("project_id = ?", projectID).
		Preload("Assignee").
		Order("created_at desc, id desc").
		Find(&stns).Error
	if err != nil {
		return nil, apperr.Internal("list stones", err)
	}
	return stns, nil
}

// UpdateStatus persists the new status and appends exactly one activity
// row: STONE_COMPLETED when the stone moves to DONE, STONE_UPDATED
// otherwise. Writing the same status again still records an activity;
// no old-vs-new comparison is made.
func (s *Service) UpdateStatus(userID, projectID, stoneID uint, status models.StoneStatus) (*models.Stone, error) {
	if err := s.Projects.RequireAccess(userID, projectID); err != nil {
		return nil, err
	}
	if status == "" {
		return nil, apperr.Validation("status is required")
	}
	if !status.Valid() {
		return nil, apperr.Validation("invalid status")
	}

	st, err := s.findInProject(projectID, stoneID)
	if err != nil {
		return nil, err
	}

	act := models.Activity{
		Type:        models.ActivityStoneUpdated,
		Description: fmt.Sprintf("moved the stone %q to %s", st.Title, status.Label()),
		ActorID:     userID,
		ProjectID:   projectID,
	}
	if status == models.StatusDone {
		act.Type = models.ActivityStoneCompleted
		act.Description = fmt.Sprintf("completed the stone %q", st.Title)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(st).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Create(&act).Error
	})
	if err != nil {
		return nil, apperr.Internal("update status", err)
	}

	st.Status = status
	return st, nil
}

// Assign sets the stone's assignee and records a STONE_ASSIGNED activity.
func (s *Service) Assign(userID, projectID, stoneID, assigneeID uint) (*models.Stone, error) {
	if err := s.Projects.RequireAccess(userID, projectID); err != nil {
		return nil, err
	}

	st, err := s.findInProject(projectID, stoneID)
	if err != nil {
		return nil, err
	}

	var assignee models.User
	if err := s.DB.First(&assignee, assigneeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("assignee")
		}
		return nil, apperr.Internal("load assignee", err)
	}

	act := models.Activity{
		Type:        models.ActivityStoneAssigned,
		Description: fmt.Sprintf("assigned the stone %q to %s", st.Title, assignee.Name),
		ActorID:     userID,
		ProjectID:   projectID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(st).Update("assignee_id", assigneeID).Error; err != nil {
			return err
		}
		return tx.Create(&act).Error
	})
	if err != nil {
		return nil, apperr.Internal("assign stone", err)
	}

	st.AssigneeID = &assigneeID
	st.Assignee = &assignee
	return st, nil
}

// ListMessages returns the stone's chat history oldest first. Ties on
// created_at break by id so the ordering is stable.
func (s *Service) ListMessages(stoneID uint) ([]models.Message, error) {
	if _, err := s.findStone(stoneID); err != nil {
		return nil, err
	}

	msgs := []models.Message{}
	err := s.DB.Where("stone_id = ?", stoneID).
		Preload("Sender").
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, apperr.Internal("list messages", err)
	}
	return msgs, nil
}

// SendMessage appends a chat message and a COMMENT_ADDED activity. The
// returned message has its sender preloaded so it can be broadcast as-is.
func (s *Service) SendMessage(userID, stoneID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("content is required")
	}

	st, err := s.findStone(stoneID)
	if err != nil {
		return nil, err
	}

	msg := models.Message{StoneID: stoneID, SenderID: userID, Content: content}
	act := models.Activity{
		Type:        models.ActivityCommentAdded,
		Description: fmt.Sprintf("commented on the stone %q", st.Title),
		ActorID:     userID,
		ProjectID:   st.ProjectID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Create(&act).Error
	})
	if err != nil {
		return nil, apperr.Internal("send message", err)
	}

	if err := s.DB.Preload("Sender").First(&msg, msg.ID).Error; err != nil {
		return nil, apperr.Internal("load message", err)
	}
	return &msg, nil
}

func (s *Service) findInProject(projectID, stoneID uint) (*models.Stone, error) {
	var st models.Stone
	err := s.DB.Where("id = ? AND project_id = ?", stoneID, projectID).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("stone")
		}
		return nil, apperr.Internal("load stone", err)
	}
	return &st, nil
}

func (s *Service) findStone(stoneID uint) (*models.Stone, error) {
	var st models.Stone
	if err := s.DB.First(&st, stoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("stone")
		}
		return nil, apperr.Internal("load stone", err)
	}
	return &st, nil
}
