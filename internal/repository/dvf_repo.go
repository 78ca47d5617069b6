package repository

import (
	"context"

	"github.com/romaxnova/dvf-api/internal/dto"
	"github.com/romaxnova/dvf-api/internal/model"

	"gorm.io/gorm"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DVFRepository defines the read contract over loaded DVF rows.
// Services depend on this interface; Postgres and the in-memory snapshot
// both implement it with the same filter semantics.
type DVFRepository interface {
	// List returns at most filter.Limit rows matching the filter, unordered.
	List(ctx context.Context, filter dto.DVFFilter) ([]model.Mutation, error)
	// ListGrouped aggregates matching rows into sales, newest first, at most
	// filter.Limit groups.
	ListGrouped(ctx context.Context, filter dto.DVFFilter) ([]model.MutationGroup, error)
	Ping(ctx context.Context) error
	Backend() string
}

type dvfRepo struct{ db *gorm.DB }

func NewDVFRepository(db *gorm.DB) DVFRepository { return &dvfRepo{db: db} }

func (r *dvfRepo) List(ctx context.Context, filter dto.DVFFilter) ([]model.Mutation, error) {
	var rows []model.Mutation
	q := BuildPredicate(filter).Apply(r.db.WithContext(ctx).Model(&model.Mutation{}))
	err := q.Limit(filter.Limit).Find(&rows).Error
	return rows, err
}

const groupedSelect = `SELECT id_mutation, date_mutation, valeur_fonciere, latitude, longitude,
       adresse_numero, adresse_nom_voie, code_postal, nom_commune,
       json_agg(json_build_object(
           'type_local', type_local,
           'surface_reelle_bati', surface_reelle_bati,
           'nombre_pieces_principales', nombre_pieces_principales
       )) AS lots
FROM dvf`

const groupedTail = `
GROUP BY id_mutation, date_mutation, adresse_numero, adresse_nom_voie, code_postal, nom_commune,
         valeur_fonciere, latitude, longitude
ORDER BY date_mutation DESC
LIMIT ?`

func (r *dvfRepo) ListGrouped(ctx context.Context, filter dto.DVFFilter) ([]model.MutationGroup, error) {
	query := groupedSelect
	where, args := BuildPredicate(filter).SQL()
	if where != "" {
		query += "\nWHERE " + where
	}
	query += groupedTail
	args = append(args, filter.Limit)

	var groups []model.MutationGroup
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&groups).Error
	return groups, err
}

func (r *dvfRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *dvfRepo) Backend() string { return BackendPostgres }
