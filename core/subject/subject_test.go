package subject_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djaner15/EduPlatform/core"
	"github.com/Djaner15/EduPlatform/core/subject"
	gormrepos "github.com/Djaner15/EduPlatform/storage/database/gorm"
	"github.com/Djaner15/EduPlatform/tests"
)

func TestService(t *testing.T) {
	db, _ := testutil.PrepareDB(t)
	svc := subject.NewService(gormrepos.NewSubjectRepository(db), testutil.NewValidator())
	lsnRepo := gormrepos.NewLessonRepository(db)
	ctx := context.Background()

	math, err := svc.Create(ctx, subject.NewSubject{Name: " Math ", Description: "Numbers"})
	require.NoError(t, err)
	assert.Equal(t, subject.Subject{ID: math.ID, Name: "Math", Description: "Numbers"}, math)
	physics, err := svc.Create(ctx, subject.NewSubject{Name: "Physics", Description: "Forces"})
	require.NoError(t, err)

	t.Run("create: blank fields", func(t *testing.T) {
		_, err := svc.Create(ctx, subject.NewSubject{Name: " "})
		vErr, ok := core.AsError(err)
		require.True(t, ok, "Create() error = %v", err)
		assert.Equal(t, core.KindValidation, vErr.Kind)
		assert.Len(t, vErr.Fields, 2)
	})
	t.Run("create: duplicate name", func(t *testing.T) {
		_, err := svc.Create(ctx, subject.NewSubject{Name: "Math", Description: "Again"})
		assert.Equal(t, subject.ErrNameExists, err)
	})
	t.Run("update: not found", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, subject.NewSubject{Name: "Bio", Description: "Cells"})
		assert.Equal(t, subject.ErrNotFound, err)
	})
	t.Run("update: name of another subject", func(t *testing.T) {
		_, err := svc.Update(ctx, physics.ID, subject.NewSubject{Name: "Math", Description: "Forces"})
		assert.Equal(t, subject.ErrNameExists, err)
	})
	t.Run("update: own name", func(t *testing.T) {
		sub, err := svc.Update(ctx, physics.ID, subject.NewSubject{Name: "Physics", Description: "Energy"})
		require.NoError(t, err)
		assert.Equal(t, "Energy", sub.Description)
	})
	t.Run("query all", func(t *testing.T) {
		subjects, err := svc.QueryAll(ctx)
		require.NoError(t, err)
		assert.Len(t, subjects, 2)
	})
	t.Run("delete: has lessons", func(t *testing.T) {
		testutil.CreateLesson(t, lsnRepo, "Fractions", math.ID, 1)
		assert.Equal(t, subject.ErrHasLessons, svc.Delete(ctx, math.ID))
		_, err := svc.GetByID(ctx, math.ID)
		assert.NoError(t, err)
	})
	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, physics.ID))
		_, err := svc.GetByID(ctx, physics.ID)
		assert.Equal(t, subject.ErrNotFound, err)
		assert.Equal(t, subject.ErrNotFound, svc.Delete(ctx, physics.ID))
	})
}
