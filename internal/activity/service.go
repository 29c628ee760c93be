// Package activity is the read side: activity feeds and dashboard stat
// rollups computed on demand. Clients poll these endpoints, so results
// are eventually consistent with a staleness window equal to the poll
// interval; nothing downstream may assume a stronger ordering.
package activity

import (
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

// Stats is the dashboard rollup for one user's accessible projects.
type Stats struct {
	TotalProjects      int64 `json:"totalProjects"`
	TotalStones        int64 `json:"totalStones"`
	CompletedStones    int64 `json:"completedStones"`
	ActiveContributors int64 `json:"activeContributors"`
}

// ListForUser returns activities across every project the user owns or
// belongs to, newest first. No accessible projects means an empty feed,
// not an error.
func (s *Service) ListForUser(userID uint) ([]models.Activity, error) {
	ids, err := s.Projects.AccessibleProjectIDs(userID)
	if err != nil {
		return nil, err
	}

	acts := []models.Activity{}
	if len(ids) == 0 {
		return acts, nil
	}
	err = s.DB.Where("project_id IN ?", ids).
		Preload("Actor").
		Preload("Project").
		Order("created_at desc, id desc").
		Find(&acts).Error
	if err != nil {
		return nil, apperr.Internal("list activities", err)
	}
	return acts, nil
}

// ListForProject returns one project's activity log, newest first.
func (s *Service) ListForProject(userID, projectID uint) ([]models.Activity, error) {
	if err := s.Projects.RequireAccess(userID, projectID); err != nil {
		return nil, err
	}

	acts := []models.Activity{}
	err := s.DB.Where("project_id = ?", projectID).
		Preload("Actor").
		Order("created_at desc, id desc").
		Find(&acts).Error
	if err != nil {
		return nil, apperr.Internal("list project activities", err)
	}
	return acts, nil
}

// ComputeStats rolls up project, stone, and contributor counts across
// the user's accessible projects. A user with no projects gets all
// zeroes; completion percentage derivation is left to the client, which
// must treat zero total stones as 0%.
func (s *Service) ComputeStats(userID uint) (*Stats, error) {
	ids, err := s.Projects.AccessibleProjectIDs(userID)
	if err != nil {
		return nil, err
	}

	st := &Stats{TotalProjects: int64(len(ids))}
	if len(ids) == 0 {
		return st, nil
	}

	if err := s.DB.Model(&models.Stone{}).
		Where("project_id IN ?", ids).
		Count(&st.TotalStones).Error; err != nil {
		return nil, apperr.Internal("count stones", err)
	}

	if err := s.DB.Model(&models.Stone{}).
		Where("project_id IN ? AND status = ?", ids, models.StatusDone).
		Count(&st.CompletedStones).Error; err != nil {
		return nil, apperr.Internal("count completed stones", err)
	}

	if err := s.DB.Model(&models.ProjectMember{}).
		Where("project_id IN ?", ids).
		Distinct("user_id").
		Count(&st.ActiveContributors).Error; err != nil {
		return nil, apperr.Internal("count contributors", err)
	}

	return st, nil
}
