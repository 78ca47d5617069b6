package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/romaxnova/dvf-api/internal/dto"
	"github.com/romaxnova/dvf-api/internal/model"

	"github.com/shopspring/decimal"
)

// SnapshotRepository serves queries from rows loaded once at startup.
// The slice is never mutated after construction, so concurrent reads need no
// locking.
type SnapshotRepository struct {
	rows []model.Mutation
}

// NewSnapshotRepository copies rows into an immutable snapshot.
func NewSnapshotRepository(rows []model.Mutation) *SnapshotRepository {
	return &SnapshotRepository{rows: append([]model.Mutation(nil), rows...)}
}

// Len is the number of rows held by the snapshot.
func (r *SnapshotRepository) Len() int { return len(r.rows) }

func (r *SnapshotRepository) List(_ context.Context, filter dto.DVFFilter) ([]model.Mutation, error) {
	out := make([]model.Mutation, 0, min(filter.Limit, len(r.rows)))
	for i := range r.rows {
		if len(out) >= filter.Limit {
			break
		}
		if Matches(filter, &r.rows[i]) {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

type groupKey struct {
	id, date, numero, voie, codePostal, commune, valeur, lat, lng string
}

// null marks an absent value inside a groupKey so it never collides with
// an empty string.
const null = "\x00"

func strKey(s *string) string {
	if s == nil {
		return null
	}
	return *s
}

func floatKey(f *float64) string {
	if f == nil {
		return null
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}

func keyOf(m *model.Mutation) groupKey {
	k := groupKey{
		id:         strKey(m.IDMutation),
		date:       null,
		numero:     strKey(m.AdresseNumero),
		voie:       strKey(m.AdresseNomVoie),
		codePostal: strKey(m.CodePostal),
		commune:    strKey(m.NomCommune),
		valeur:     null,
		lat:        floatKey(m.Latitude),
		lng:        floatKey(m.Longitude),
	}
	if m.DateMutation != nil {
		k.date = m.DateMutation.Format(time.DateOnly)
	}
	if m.ValeurFonciere.Valid {
		k.valeur = m.ValeurFonciere.Decimal.String()
	}
	return k
}

func (r *SnapshotRepository) ListGrouped(_ context.Context, filter dto.DVFFilter) ([]model.MutationGroup, error) {
	index := make(map[groupKey]int)
	var groups []model.MutationGroup

	for i := range r.rows {
		m := &r.rows[i]
		if !Matches(filter, m) {
			continue
		}
		lot := model.Lot{
			TypeLocal:               m.TypeLocal,
			SurfaceReelleBati:       m.SurfaceReelleBati,
			NombrePiecesPrincipales: m.NombrePiecesPrincipales,
		}
		k := keyOf(m)
		if gi, ok := index[k]; ok {
			groups[gi].Lots = append(groups[gi].Lots, lot)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, model.MutationGroup{
			IDMutation:     m.IDMutation,
			DateMutation:   m.DateMutation,
			ValeurFonciere: m.ValeurFonciere,
			Latitude:       m.Latitude,
			Longitude:      m.Longitude,
			AdresseNumero:  m.AdresseNumero,
			AdresseNomVoie: m.AdresseNomVoie,
			CodePostal:     m.CodePostal,
			NomCommune:     m.NomCommune,
			Lots:           []model.Lot{lot},
		})
	}

	// Newest first; null dates sort first, as Postgres does for DESC.
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].DateMutation, groups[j].DateMutation
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.After(*b)
		}
	})

	if len(groups) > filter.Limit {
		groups = groups[:filter.Limit]
	}
	return groups, nil
}

func (r *SnapshotRepository) Ping(context.Context) error { return nil }

func (r *SnapshotRepository) Backend() string { return BackendMemory }

// Matches evaluates the filter against one row in process. It agrees with
// BuildPredicate: a null operand never satisfies a bound.
func Matches(f dto.DVFFilter, m *model.Mutation) bool {
	if b := f.BBox; b != nil {
		if m.Latitude == nil || m.Longitude == nil || !b.Contains(*m.Latitude, *m.Longitude) {
			return false
		}
	}

	if f.YearMin != nil || f.YearMax != nil {
		year, ok := m.Year()
		if !ok ||
			(f.YearMin != nil && year < *f.YearMin) ||
			(f.YearMax != nil && year > *f.YearMax) {
			return false
		}
	}

	if f.PriceMin != nil || f.PriceMax != nil {
		if !m.ValeurFonciere.Valid || !within(m.ValeurFonciere.Decimal, f.PriceMin, f.PriceMax) {
			return false
		}
	}

	if f.HasPriceM2() {
		ppm, ok := m.PricePerM2()
		if !ok || !within(ppm, f.PriceM2Min, f.PriceM2Max) {
			return false
		}
	}
	return true
}

func within(v decimal.Decimal, lo, hi *float64) bool {
	if lo != nil && v.LessThan(decimal.NewFromFloat(*lo)) {
		return false
	}
	if hi != nil && v.GreaterThan(decimal.NewFromFloat(*hi)) {
		return false
	}
	return true
}
