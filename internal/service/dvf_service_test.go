package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/romaxnova/dvf-api/internal/dto"
	"github.com/romaxnova/dvf-api/internal/model"
	"github.com/romaxnova/dvf-api/internal/repository"
	"github.com/romaxnova/dvf-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// ── Recording DVFRepository stub ─────────────────────────────────────────────

type stubDVFRepo struct {
	rows    []model.Mutation
	groups  []model.MutationGroup
	err     error
	lastReq dto.DVFFilter
}

var _ repository.DVFRepository = (*stubDVFRepo)(nil)

func (r *stubDVFRepo) List(_ context.Context, f dto.DVFFilter) ([]model.Mutation, error) {
	r.lastReq = f
	return r.rows, r.err
}

func (r *stubDVFRepo) ListGrouped(_ context.Context, f dto.DVFFilter) ([]model.MutationGroup, error) {
	r.lastReq = f
	return r.groups, r.err
}

func (r *stubDVFRepo) Ping(context.Context) error { return r.err }
func (r *stubDVFRepo) Backend() string            { return "stub" }

func ptr[T any](v T) *T { return &v }

// ── Search ───────────────────────────────────────────────────────────────────

func TestSearch_DefaultsAndCapsLimit(t *testing.T) {
	repo := &stubDVFRepo{}
	svc := service.NewDVFService(repo, 10000)

	_, err := svc.Search(context.Background(), dto.DVFFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1000, repo.lastReq.Limit)

	_, err = svc.Search(context.Background(), dto.DVFFilter{Limit: 50000})
	require.NoError(t, err)
	assert.Equal(t, 10000, repo.lastReq.Limit)

	_, err = svc.Search(context.Background(), dto.DVFFilter{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, repo.lastReq.Limit)
}

func TestSearch_PassesFiltersThrough(t *testing.T) {
	repo := &stubDVFRepo{}
	svc := service.NewDVFService(repo, 10000)

	f := dto.DVFFilter{YearMin: ptr(2020), PriceM2Max: ptr(8000.0), Limit: 10}
	_, err := svc.Search(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, f, repo.lastReq)
}

func TestSearch_MapsRows(t *testing.T) {
	d := time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC)
	repo := &stubDVFRepo{rows: []model.Mutation{
		{
			ID:                7,
			IDMutation:        ptr("2023-42"),
			DateMutation:      &d,
			ValeurFonciere:    decimal.NewNullDecimal(decimal.NewFromInt(100000)),
			SurfaceReelleBati: ptr(30.0),
			TypeLocal:         ptr("Appartement"),
		},
		{ID: 8},
	}}
	svc := service.NewDVFService(repo, 10000)

	resp, err := svc.Search(context.Background(), dto.DVFFilter{})
	require.NoError(t, err)
	require.Len(t, resp, 2)

	assert.Equal(t, int64(7), resp[0].ID)
	assert.Equal(t, "2023-04-02", *resp[0].DateMutation)
	assert.True(t, resp[0].PricePerM2.Valid)
	assert.Equal(t, "3333.33", resp[0].PricePerM2.Decimal.String())
	assert.Equal(t, "Appartement", *resp[0].TypeLocal)

	assert.Nil(t, resp[1].DateMutation)
	assert.False(t, resp[1].PricePerM2.Valid)
}

func TestSearch_EmptyResultIsEmptySlice(t *testing.T) {
	svc := service.NewDVFService(&stubDVFRepo{}, 10000)

	resp, err := svc.Search(context.Background(), dto.DVFFilter{})
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}

func TestSearch_RepositoryError(t *testing.T) {
	svc := service.NewDVFService(&stubDVFRepo{err: errors.New("relation \"dvf\" does not exist")}, 10000)

	_, err := svc.Search(context.Background(), dto.DVFFilter{})
	assert.Error(t, err)
}

// ── SearchGrouped ────────────────────────────────────────────────────────────

func TestSearchGrouped_IgnoresPriceM2AndLimit(t *testing.T) {
	repo := &stubDVFRepo{}
	svc := service.NewDVFService(repo, 10000)

	_, err := svc.SearchGrouped(context.Background(), dto.DVFFilter{
		PriceMin:   ptr(1.0),
		PriceM2Min: ptr(1000.0),
		PriceM2Max: ptr(2000.0),
		Limit:      5000,
	})
	require.NoError(t, err)

	assert.Nil(t, repo.lastReq.PriceM2Min)
	assert.Nil(t, repo.lastReq.PriceM2Max)
	assert.Equal(t, 1.0, *repo.lastReq.PriceMin)
	assert.Equal(t, dto.GroupedLimit, repo.lastReq.Limit)
}

func TestSearchGrouped_MapsAdresseAndLots(t *testing.T) {
	d := time.Date(2022, 11, 30, 0, 0, 0, 0, time.UTC)
	repo := &stubDVFRepo{groups: []model.MutationGroup{
		{
			IDMutation:     ptr("2022-9"),
			DateMutation:   &d,
			ValeurFonciere: decimal.NewNullDecimal(decimal.NewFromInt(315000)),
			AdresseNumero:  nil,
			AdresseNomVoie: ptr("PL BELLECOUR"),
			CodePostal:     ptr("69002"),
			NomCommune:     ptr("Lyon 2e Arrondissement"),
			Lots: datatypes.JSONSlice[model.Lot]{
				{TypeLocal: ptr("Appartement"), SurfaceReelleBati: ptr(71.0), NombrePiecesPrincipales: ptr(int64(3))},
				{TypeLocal: ptr("Dépendance")},
			},
		},
		{IDMutation: ptr("2022-10")},
	}}
	svc := service.NewDVFService(repo, 10000)

	resp, err := svc.SearchGrouped(context.Background(), dto.DVFFilter{})
	require.NoError(t, err)
	require.Len(t, resp, 2)

	assert.Equal(t, "PL BELLECOUR, 69002 Lyon 2e Arrondissement", resp[0].Adresse)
	assert.Equal(t, "2022-11-30", *resp[0].DateMutation)
	require.Len(t, resp[0].Lots, 2)
	assert.Equal(t, 71.0, *resp[0].Lots[0].SurfaceReelleBati)
	assert.Nil(t, resp[0].Lots[1].NombrePiecesPrincipales)

	assert.Equal(t, "", resp[1].Adresse)
	assert.NotNil(t, resp[1].Lots)
	assert.Empty(t, resp[1].Lots)
}
