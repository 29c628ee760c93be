package activity

import (
	"fmt"
	"strings"
	"testing"

	"github.com/suryssss/SkillStones-sub001/internal/apperr"
	"github.com/suryssss/SkillStones-sub001/internal/models"
	"github.com/suryssss/SkillStones-sub001/internal/projects"
	"github.com/suryssss/SkillStones-sub001/internal/stones"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Stone{},
		&models.Message{},
		&models.Activity{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func TestListForUserEmpty(t *testing.T) {
	db := setupTestDB(t)
	projSvc := projects.NewService(db)
	svc := NewService(db, projSvc)
	loner := createUser(t, db, "loner")

	acts, err := svc.ListForUser(loner.ID)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestListForUserSpansAccessibleProjects(t *testing.T) {
	db := setupTestDB(t)
	projSvc := projects.NewService(db)
	stoneSvc := stones.NewService(db, projSvc)
	svc := NewService(db, projSvc)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	mine, err := projSvc.Create(alice.ID, "Mine", "")
	require.NoError(t, err)
	theirs, err := projSvc.Create(bob.ID, "Theirs", "")
	require.NoError(t, err)
	// MEMBER_ADDED activity on theirs
	_, err = projSvc.AddMember(bob.ID, theirs.ID, alice.ID)
	require.NoError(t, err)

	st, err := stoneSvc.Create(alice.ID, mine.ID, stones.CreateInput{Title: "task"})
	require.NoError(t, err)
	_, err = stoneSvc.UpdateStatus(alice.ID, mine.ID, st.ID, models.StatusDone)
	require.NoError(t, err)

	acts, err := svc.ListForUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	// newest first, with actor and project joined
	assert.Equal(t, models.ActivityStoneCompleted, acts[0].Type)
	assert.Equal(t, "alice", acts[0].Actor.Name)
	assert.Equal(t, "Mine", acts[0].Project.Title)
	assert.Equal(t, models.ActivityMemberAdded, acts[1].Type)
}

func TestListForProjectAccessGate(t *testing.T) {
	db := setupTestDB(t)
	projSvc := projects.NewService(db)
	stoneSvc := stones.NewService(db, projSvc)
	svc := NewService(db, projSvc)

	alice := createUser(t, db, "alice")
	eve := createUser(t, db, "eve")

	p, err := projSvc.Create(alice.ID, "Secret", "")
	require.NoError(t, err)
	st, err := stoneSvc.Create(alice.ID, p.ID, stones.CreateInput{Title: "task"})
	require.NoError(t, err)
	_, err = stoneSvc.UpdateStatus(alice.ID, p.ID, st.ID, models.StatusDone)
	require.NoError(t, err)

	_, err = svc.ListForProject(eve.ID, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	acts, err := svc.ListForProject(alice.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, models.ActivityStoneCompleted, acts[0].Type)
	assert.Contains(t, acts[0].Description, "task")
}

func TestComputeStatsZero(t *testing.T) {
	db := setupTestDB(t)
	projSvc := projects.NewService(db)
	svc := NewService(db, projSvc)
	loner := createUser(t, db, "loner")

	st, err := svc.ComputeStats(loner.ID)
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, st)
}

func TestComputeStats(t *testing.T) {
	db := setupTestDB(t)
	projSvc := projects.NewService(db)
	stoneSvc := stones.NewService(db, projSvc)
	svc := NewService(db, projSvc)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	p1, err := projSvc.Create(alice.ID, "One", "")
	require.NoError(t, err)
	p2, err := projSvc.Create(alice.ID, "Two", "")
	require.NoError(t, err)

	// bob in both projects, carol in one: 3 distinct contributors
	_, err = projSvc.AddMember(alice.ID, p1.ID, bob.ID)
	require.NoError(t, err)
	_, err = projSvc.AddMember(alice.ID, p2.ID, bob.ID)
	require.NoError(t, err)
	_, err = projSvc.AddMember(alice.ID, p2.ID, carol.ID)
	require.NoError(t, err)

	// 5 stones, 2 done
	for i, spec := range []struct {
		proj *models.Project
		done bool
	}{
		{p1, true}, {p1, false}, {p1, false}, {p2, true}, {p2, false},
	} {
		st, err := stoneSvc.Create(alice.ID, spec.proj.ID, stones.CreateInput{Title: fmt.Sprintf("stone %d", i)})
		require.NoError(t, err)
		if spec.done {
			_, err = stoneSvc.UpdateStatus(alice.ID, spec.proj.ID, st.ID, models.StatusDone)
			require.NoError(t, err)
		}
	}

	got, err := svc.ComputeStats(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, &Stats{
		TotalProjects:      2,
		TotalStones:        5,
		CompletedStones:    2,
		ActiveContributors: 3,
	}, got)
}
