package service_test

import (
	"context"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/domains/genre/model"
	"library-catalog/internal/domains/genre/repository"
	"library-catalog/internal/domains/genre/service"
	"library-catalog/internal/testutil"
)

func newService(t *testing.T) service.ServiceInterface {
	return service.NewGenreService(repository.NewSQLRepository(testutil.NewStore(t)))
}

func TestCreate_DuplicateNameRejected(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateGenreRequest{Name: "Fantasy"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.CreateGenreRequest{Name: "Fantasy"})

	var fields validation.Errors
	require.ErrorAs(t, err, &fields)
	assert.ErrorIs(t, fields["name"], model.ErrDuplicateGenreName)
}

func TestGetOrCreate_ReusesExistingName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	existing, err := svc.Create(ctx, model.CreateGenreRequest{Name: "Horror"})
	require.NoError(t, err)

	g, created, err := svc.GetOrCreate(ctx, model.CreateGenreRequest{Name: "  Horror "})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, g.ID)

	g, created, err = svc.GetOrCreate(ctx, model.CreateGenreRequest{Name: "Mystery"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Mystery", g.Name)

	genres, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 2)
}

func TestCreate_NameLength(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateGenreRequest{Name: strings.Repeat("a", 64)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.CreateGenreRequest{Name: strings.Repeat("b", 65)})
	var fields validation.Errors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "name")

	_, err = svc.Create(ctx, model.CreateGenreRequest{})
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "name")
}

func TestUpdate_RenameConflict(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateGenreRequest{Name: "Poetry"})
	require.NoError(t, err)
	prose, err := svc.Create(ctx, model.CreateGenreRequest{Name: "Prose"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, prose.ID, model.UpdateGenreRequest{Name: lo.ToPtr("Poetry")})
	var fields validation.Errors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "name")

	renamed, err := svc.Update(ctx, prose.ID, model.UpdateGenreRequest{Name: lo.ToPtr("Essays")})
	require.NoError(t, err)
	assert.Equal(t, "Essays", renamed.Name)
}

func TestGetByIDs_ReportsMissing(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, model.CreateGenreRequest{Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, model.CreateGenreRequest{Name: "B"})
	require.NoError(t, err)

	genres, err := svc.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, a.ID})
	require.NoError(t, err)
	assert.Len(t, genres, 2)

	missing := uuid.New()
	_, err = svc.GetByIDs(ctx, []uuid.UUID{a.ID, missing})

	var missingErr *model.MissingGenreError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, missing, missingErr.ID)
	assert.ErrorIs(t, err, model.ErrGenreNotFound)
}

func TestDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, model.CreateGenreRequest{Name: "Satire"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, g.ID))
	assert.ErrorIs(t, svc.Delete(ctx, g.ID), model.ErrGenreNotFound)

	_, err = svc.GetByID(ctx, g.ID)
	assert.ErrorIs(t, err, model.ErrGenreNotFound)
}
