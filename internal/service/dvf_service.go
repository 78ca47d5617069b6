package service

import (
	"context"
	"time"

	"github.com/romaxnova/dvf-api/internal/dto"
	"github.com/romaxnova/dvf-api/internal/model"
	"github.com/romaxnova/dvf-api/internal/repository"

	"github.com/shopspring/decimal"
)

// DVFService defines the query contract behind /api/dvf.
type DVFService interface {
	Search(ctx context.Context, filter dto.DVFFilter) ([]dto.MutationResponse, error)
	SearchGrouped(ctx context.Context, filter dto.DVFFilter) ([]dto.GroupedMutationResponse, error)
}

type dvfService struct {
	repo     repository.DVFRepository
	maxLimit int
}

// NewDVFService returns the query service. maxLimit caps the flat endpoint's
// limit parameter; values below 1 mean "no cap beyond the default".
func NewDVFService(repo repository.DVFRepository, maxLimit int) DVFService {
	if maxLimit < 1 {
		maxLimit = dto.DefaultLimit
	}
	return &dvfService{repo: repo, maxLimit: maxLimit}
}

func (s *dvfService) Search(ctx context.Context, filter dto.DVFFilter) ([]dto.MutationResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = dto.DefaultLimit
	}
	filter.Limit = min(filter.Limit, s.maxLimit)

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.MutationResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, mutationToDTO(&rows[i]))
	}
	return resp, nil
}

// SearchGrouped ignores price-per-m² bounds and the requested limit: grouped
// results are always capped at dto.GroupedLimit.
func (s *dvfService) SearchGrouped(ctx context.Context, filter dto.DVFFilter) ([]dto.GroupedMutationResponse, error) {
	filter.PriceM2Min, filter.PriceM2Max = nil, nil
	filter.Limit = dto.GroupedLimit

	groups, err := s.repo.ListGrouped(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.GroupedMutationResponse, 0, len(groups))
	for i := range groups {
		resp = append(resp, groupToDTO(&groups[i]))
	}
	return resp, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func mutationToDTO(m *model.Mutation) dto.MutationResponse {
	var ppm decimal.NullDecimal
	if v, ok := m.PricePerM2(); ok {
		ppm = decimal.NewNullDecimal(v.Round(2))
	}
	return dto.MutationResponse{
		ID:                        m.ID,
		IDMutation:                m.IDMutation,
		DateMutation:              formatDate(m.DateMutation),
		NumeroDisposition:         m.NumeroDisposition,
		NatureMutation:            m.NatureMutation,
		ValeurFonciere:            m.ValeurFonciere,
		PricePerM2:                ppm,
		AdresseNumero:             m.AdresseNumero,
		AdresseSuffixe:            m.AdresseSuffixe,
		AdresseNomVoie:            m.AdresseNomVoie,
		AdresseCodeVoie:           m.AdresseCodeVoie,
		CodePostal:                m.CodePostal,
		CodeCommune:               m.CodeCommune,
		NomCommune:                m.NomCommune,
		CodeDepartement:           m.CodeDepartement,
		AncienCodeCommune:         m.AncienCodeCommune,
		AncienNomCommune:          m.AncienNomCommune,
		IDParcelle:                m.IDParcelle,
		AncienIDParcelle:          m.AncienIDParcelle,
		NumeroVolume:              m.NumeroVolume,
		Lot1Numero:                m.Lot1Numero,
		Lot1SurfaceCarrez:         m.Lot1SurfaceCarrez,
		Lot2Numero:                m.Lot2Numero,
		Lot2SurfaceCarrez:         m.Lot2SurfaceCarrez,
		Lot3Numero:                m.Lot3Numero,
		Lot3SurfaceCarrez:         m.Lot3SurfaceCarrez,
		Lot4Numero:                m.Lot4Numero,
		Lot4SurfaceCarrez:         m.Lot4SurfaceCarrez,
		Lot5Numero:                m.Lot5Numero,
		Lot5SurfaceCarrez:         m.Lot5SurfaceCarrez,
		NombreLots:                m.NombreLots,
		CodeTypeLocal:             m.CodeTypeLocal,
		TypeLocal:                 m.TypeLocal,
		SurfaceReelleBati:         m.SurfaceReelleBati,
		NombrePiecesPrincipales:   m.NombrePiecesPrincipales,
		CodeNatureCulture:         m.CodeNatureCulture,
		NatureCulture:             m.NatureCulture,
		CodeNatureCultureSpeciale: m.CodeNatureCultureSpeciale,
		NatureCultureSpeciale:     m.NatureCultureSpeciale,
		SurfaceTerrain:            m.SurfaceTerrain,
		Longitude:                 m.Longitude,
		Latitude:                  m.Latitude,
	}
}

func groupToDTO(g *model.MutationGroup) dto.GroupedMutationResponse {
	lots := make([]dto.LotResponse, 0, len(g.Lots))
	for _, l := range g.Lots {
		lots = append(lots, dto.LotResponse{
			TypeLocal:               l.TypeLocal,
			SurfaceReelleBati:       l.SurfaceReelleBati,
			NombrePiecesPrincipales: l.NombrePiecesPrincipales,
		})
	}
	return dto.GroupedMutationResponse{
		IDMutation:     g.IDMutation,
		DateMutation:   formatDate(g.DateMutation),
		ValeurFonciere: g.ValeurFonciere,
		Latitude:       g.Latitude,
		Longitude:      g.Longitude,
		Adresse:        dto.FormatAdresse(g.AdresseNumero, g.AdresseNomVoie, g.CodePostal, g.NomCommune),
		Lots:           lots,
	}
}
