package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/events"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

func TestNovedadCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	area := f.createArea(t, "Guardia")

	n, err := f.novedades.Create(ctx, f.operator, NovedadInput{
		Content: "  Se recibió mercadería  ",
		AreaID:  area.ID,
		Tags:    []string{" urgente ", "", "stock"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Se recibió mercadería", n.Content)
	assert.Equal(t, []string{"urgente", "stock"}, n.Tags)
	assert.Equal(t, f.operatorUser.ID, n.AuthorID)
	require.NotNil(t, n.Author)
	assert.Equal(t, "operador", n.Author.Username)
	require.NotNil(t, n.Area)
	assert.Equal(t, "Guardia", n.Area.Name)
	assert.Nil(t, n.DeleteAudit)

	created := f.recorder.OfType(events.EventNovedadCreated)
	require.Len(t, created, 1)
	assert.Equal(t, n.ID, created[0].EntityID)
}

func TestNovedadCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	area := f.createArea(t, "Guardia")

	tests := []struct {
		name string
		in   NovedadInput
		code string
	}{
		{"blank content", NovedadInput{Content: "   ", AreaID: area.ID}, apperrors.CodeValidation},
		{"content too long", NovedadInput{Content: strings.Repeat("x", 5001), AreaID: area.ID}, apperrors.CodeValidation},
		{"missing area", NovedadInput{Content: "hola"}, apperrors.CodeValidation},
		{"malformed area", NovedadInput{Content: "hola", AreaID: "abc"}, apperrors.CodeBadRequest},
		{"unknown area", NovedadInput{Content: "hola", AreaID: uuid.NewString()}, apperrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.novedades.Create(ctx, f.operator, tt.in)
			requireCode(t, err, tt.code)
		})
	}

	n, err := f.novedades.Create(ctx, f.operator, NovedadInput{Content: strings.Repeat("x", 5000), AreaID: area.ID})
	require.NoError(t, err)
	assert.Len(t, n.Content, 5000)

	_, err = f.novedades.Create(ctx, nil, NovedadInput{Content: "hola", AreaID: area.ID})
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestNovedadOnDeletedAreaIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	area := f.createArea(t, "Depósito")
	_, err := f.areas.Delete(ctx, f.supervisor, area.ID)
	require.NoError(t, err)

	_, err = f.novedades.Create(ctx, f.operator, NovedadInput{Content: "Inventario", AreaID: area.ID})
	requireCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, "No se pueden generar novedades sobre áreas eliminadas", detailOf(err))

	all, err := f.novedades.Search(ctx, f.supervisor, SearchInput{Scope: "all"})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNovedadByDeletedAuthorIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	area := f.createArea(t, "Depósito")
	_, err := f.users.Delete(ctx, f.supervisor, f.operatorUser.ID, "Baja")
	require.NoError(t, err)

	// The token is still valid, the account is not.
	_, err = f.novedades.Create(ctx, f.operator, NovedadInput{Content: "Inventario", AreaID: area.ID})
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestNovedadReferencesResolveAtReadTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	area := f.createArea(t, "Playa")
	n := f.createNovedad(t, f.operator, area.ID, "Contenedor abierto")

	_, err := f.areas.Update(ctx, f.supervisor, area.ID, AreaInput{Name: strPtr("Playa Norte")})
	require.NoError(t, err)
	_, err = f.areas.Delete(ctx, f.supervisor, area.ID)
	require.NoError(t, err)

	list, err := f.novedades.ListActive(ctx, f.operator)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)
	assert.Equal(t, "Playa Norte", list[0].Area.Name)
	assert.True(t, list[0].Area.IsDeleted)
}

func TestSearchScopeCoercion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	area := f.createArea(t, "Guardia")
	keep := f.createNovedad(t, f.operator, area.ID, "Activa")
	gone := f.createNovedad(t, f.operator, area.ID, "Borrada")
	_, err := f.novedades.Delete(ctx, f.supervisor, gone.ID, "Error")
	require.NoError(t, err)

	ids := func(list []domain.Novedad) []string {
		out := make([]string, 0, len(list))
		for _, n := range list {
			out = append(out, n.ID)
		}
		return out
	}

	deleted, err := f.novedades.Search(ctx, f.supervisor, SearchInput{Scope: "deleted"})
	require.NoError(t, err)
	assert.Equal(t, []string{gone.ID}, ids(deleted))
	require.NotNil(t, deleted[0].DeleteAudit)

	legacy, err := f.novedades.Search(ctx, f.supervisor, SearchInput{IsDeleted: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{gone.ID}, ids(legacy))

	all, err := f.novedades.Search(ctx, f.supervisor, SearchInput{Scope: "ALL"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{keep.ID, gone.ID}, ids(all))

	for _, in := range []SearchInput{{Scope: "deleted"}, {Scope: "all"}, {IsDeleted: boolPtr(true)}} {
		got, err := f.novedades.Search(ctx, f.operator, in)
		require.NoError(t, err)
		assert.Equal(t, []string{keep.ID}, ids(got))
	}

	_, err = f.novedades.Search(ctx, f.supervisor, SearchInput{Scope: "archived"})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestSearchFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	guardia := f.createArea(t, "Guardia")
	deposito := f.createArea(t, "Depósito")

	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(ts time.Time) { f.store.SetClock(func() time.Time { return ts }) }

	at(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC))
	f.createNovedad(t, f.operator, guardia.ID, "Antes del rango", "urgente")
	at(clock)
	first := f.createNovedad(t, f.operator, guardia.ID, "Portón trabado", "urgente")
	at(time.Date(2024, 3, 2, 23, 59, 0, 0, time.UTC))
	second := f.createNovedad(t, f.supervisor, guardia.ID, "Cámara sin señal", "mantenimiento")
	at(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))
	f.createNovedad(t, f.operator, deposito.ID, "Otra área", "urgente")
	at(time.Date(2024, 3, 2, 13, 0, 0, 0, time.UTC))
	f.createNovedad(t, f.operator, guardia.ID, "Sin etiqueta buscada", "limpieza")
	at(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	f.createNovedad(t, f.operator, guardia.ID, "Después del rango", "urgente")

	got, err := f.novedades.Search(ctx, f.operator, SearchInput{
		AreaID: guardia.ID,
		Tags:   []string{"urgente", "mantenimiento"},
		From:   "2024-03-01",
		To:     "2024-03-02",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID, "newest first")
	assert.Equal(t, first.ID, got[1].ID)

	byAuthor, err := f.novedades.Search(ctx, f.operator, SearchInput{AuthorID: f.supervisorUser.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, second.ID, byAuthor[0].ID)

	byText, err := f.novedades.Search(ctx, f.operator, SearchInput{Text: "portón TRABADO"})
	require.NoError(t, err)
	require.Len(t, byText, 1)
	assert.Equal(t, first.ID, byText[0].ID)
}

func TestSearchDateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.novedades.Search(ctx, f.operator, SearchInput{From: "01/03/2024"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.novedades.Search(ctx, f.operator, SearchInput{From: "2024-03-05", To: "2024-03-01"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.novedades.Search(ctx, f.operator, SearchInput{AreaID: "nope"})
	requireCode(t, err, apperrors.CodeBadRequest)

	got, err := f.novedades.Search(ctx, f.operator, SearchInput{From: "2024-03-01", To: "2024-03-01"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchDatesUseConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	svc := NewNovedadService(NovedadDependencies{Location: loc})

	filter, err := svc.buildFilter(&domain.Session{UserID: "u", Role: domain.RoleOperator}, SearchInput{From: "2024-03-01", To: "2024-03-01"})
	require.NoError(t, err)
	require.NotNil(t, filter.CreatedFrom)
	require.NotNil(t, filter.CreatedTo)
	assert.True(t, filter.CreatedFrom.Equal(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)))
	assert.True(t, filter.CreatedTo.Equal(time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.ScopeActive, filter.Scope)
}
