package learner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/learner"
	testutil "github.com/trezcool/darasa/tests"
)

func TestService_Enroll(t *testing.T) {
	ctx := context.Background()
	super := testutil.Super()

	t.Run("upserts on natural identity", func(t *testing.T) {
		svc, repo := setup(t)

		l1, err := svc.Enroll(ctx, super, learner.NewLearner{FirstName: "Ada", LastName: "Lovelace", Code: "AL12"}, []int{1})
		assert.NoError(t, err)
		// case-insensitive name match, exact code match
		l2, err := svc.Enroll(ctx, super, learner.NewLearner{FirstName: "ada", LastName: "LOVELACE", Code: "AL12"}, []int{2})
		assert.NoError(t, err)
		assert.Equal(t, l1.ID, l2.ID)

		all, err := repo.QueryAllLearners(ctx)
		assert.NoError(t, err)
		assert.Len(t, all, 1)

		// last enrollment's school set wins
		ids, err := repo.QueryLearnerSchoolIDs(ctx, l1.ID)
		assert.NoError(t, err)
		assert.Equal(t, []int{2}, ids)
	})

	t.Run("different code is a different learner", func(t *testing.T) {
		svc, repo := setup(t)

		_, err := svc.Enroll(ctx, super, learner.NewLearner{FirstName: "Ada", LastName: "Lovelace", Code: "AL12"}, nil)
		assert.NoError(t, err)
		_, err = svc.Enroll(ctx, super, learner.NewLearner{FirstName: "Ada", LastName: "Lovelace", Code: "AL34"}, nil)
		assert.NoError(t, err)

		all, err := repo.QueryAllLearners(ctx)
		assert.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("code length enforced", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Enroll(ctx, super, learner.NewLearner{FirstName: "Bob", LastName: "Smith", Code: "AB1"}, nil)
		assert.Error(t, err)
	})

	t.Run("actor gating", func(t *testing.T) {
		svc, _ := setup(t)
		nl := learner.NewLearner{FirstName: "Ada", LastName: "Lovelace", Code: "AL12"}

		_, err := svc.Enroll(ctx, core.Actor{}, nl, nil)
		assert.Equal(t, core.ErrPermissionDenied, err)
		_, err = svc.Enroll(ctx, core.Actor{ID: 1, Role: core.RoleAdmin}, nl, nil)
		assert.NoError(t, err)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	super := testutil.Super()
	svc, repo := setup(t)

	l := testutil.CreateLearner(t, repo, "Ada", "Lovelace", "AL12")
	testutil.AssignLearnerSchools(t, repo, l.ID, 1)
	testutil.EnrollLearner(t, repo, l.ID, 5)

	// scoped admins cannot delete
	assert.Equal(t, core.ErrPermissionDenied, svc.Delete(ctx, core.Actor{ID: 1, Role: core.RoleAdmin}, l.ID))

	assert.NoError(t, svc.Delete(ctx, super, l.ID))
	_, err := svc.GetByID(ctx, l.ID)
	assert.Equal(t, learner.ErrNotFound, err)
	ids, err := repo.QueryLearnerSchoolIDs(ctx, l.ID)
	assert.NoError(t, err)
	assert.Empty(t, ids)

	assert.Equal(t, learner.ErrNotFound, svc.Delete(ctx, super, l.ID))
}
