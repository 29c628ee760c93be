package projects

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suryssss/SkillStones-sub001/internal/apperr"
	"github.com/suryssss/SkillStones-sub001/internal/models"

	"gorm.io/gorm"
)

// Service owns project records, membership rows, and the access checks
// every project-scoped operation goes through.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Create persists the project together with the owner's OWNER membership
// row, so the owner is a listed member from the start.
func (s *Service) Create(ownerID uint, title, description string) (*models.Project, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("title is required")
	}

	p := models.Project{Title: title, Description: description, OwnerID: ownerID}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		owner := models.ProjectMember{ProjectID: p.ID, UserID: ownerID, Role: models.RoleOwner}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, apperr.Internal("create project", err)
	}
	return &p, nil
}

// List returns every project the user owns or belongs to, newest first.
func (s *Service) List(userID uint) ([]models.Project, error) {
	ids, err := s.AccessibleProjectIDs(userID)
	if err != nil {
		return nil, err
	}

	projs := []models.Project{}
	if len(ids) == 0 {
		return projs, nil
	}
	if err := s.DB.Where("id IN ?", ids).Order("created_at desc").Find(&projs).Error; err != nil {
		return nil, apperr.Internal("list projects", err)
	}
	return projs, nil
}

// Get loads one project with its members. Missing project and no access
// both come back as NotFound.
func (s *Service) Get(userID, projectID uint) (*models.Project, error) {
	if err := s.RequireAccess(userID, projectID); err != nil {
		return nil, err
	}

	var p models.Project
	if err := s.DB.Preload("Members.User").First(&p, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project")
		}
		return nil, apperr.Internal("get project", err)
	}
	return &p, nil
}

// AddMember grants a user MEMBER access and records a MEMBER_ADDED
// activity in the same transaction.
func (s *Service) AddMember(actorID, projectID, userID uint) (*models.ProjectMember, error) {
	if err := s.RequireAccess(actorID, projectID); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal("load user", err)
	}

	var existing int64
	if err := s.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&existing).Error; err != nil {
		return nil, apperr.Internal("check membership", err)
	}
	if existing > 0 {
		return nil, apperr.Validation("user is already a member")
	}

	m := models.ProjectMember{ProjectID: projectID, UserID: userID, Role: models.RoleMember}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		act := models.Activity{
			Type:        models.ActivityMemberAdded,
			Description: fmt.Sprintf("added %s to the project", user.Name),
			ActorID:     actorID,
			ProjectID:   projectID,
		}
		return tx.Create(&act).Error
	})
	if err != nil {
		return nil, apperr.Internal("add member", err)
	}

	m.User = user
	return &m, nil
}

// RequireAccess returns NotFound unless the user owns the project or has
// a membership row. The two failure cases are indistinguishable by design.
func (s *Service) RequireAccess(userID, projectID uint) error {
	ok, err := s.HasAccess(userID, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("project")
	}
	return nil
}

func (s *Service) HasAccess(userID, projectID uint) (bool, error) {
	var n int64
	err := s.DB.Model(&models.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Count(&n).Error
	if err != nil {
		return false, apperr.Internal("access check", err)
	}
	if n > 0 {
		return true, nil
	}

	err = s.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&n).Error
	if err != nil {
		return false, apperr.Internal("access check", err)
	}
	return n > 0, nil
}

// AccessibleProjectIDs is the union of owned and member-of project ids,
// deduplicated.
func (s *Service) AccessibleProjectIDs(userID uint) ([]uint, error) {
	var owned []uint
	if err := s.DB.Model(&models.Project{}).
		Where("owner_id = ?", userID).
		Pluck("id", &owned).Error; err != nil {
		return nil, apperr.Internal("list owned projects", err)
	}

	var memberOf []uint
	if err := s.DB.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &memberOf).Error; err != nil {
		return nil, apperr.Internal("list memberships", err)
	}

	seen := make(map[uint]struct{}, len(owned)+len(memberOf))
	ids := make([]uint, 0, len(owned)+len(memberOf))
	for _, id := range append(owned, memberOf...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
