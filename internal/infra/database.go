package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SchemaStatements creates the dvf table and its read-path indexes.
// Every statement is idempotent so the server and the loader can both run
// them on startup; there is no migration history to track.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dvf (
		id                           BIGSERIAL PRIMARY KEY,
		id_mutation                  TEXT,
		date_mutation                DATE,
		numero_disposition           INTEGER,
		nature_mutation              TEXT,
		valeur_fonciere              NUMERIC,
		adresse_numero               TEXT,
		adresse_suffixe              TEXT,
		adresse_nom_voie             TEXT,
		adresse_code_voie            TEXT,
		code_postal                  TEXT,
		code_commune                 TEXT,
		nom_commune                  TEXT,
		code_departement             TEXT,
		ancien_code_commune          TEXT,
		ancien_nom_commune           TEXT,
		id_parcelle                  TEXT,
		ancien_id_parcelle           TEXT,
		numero_volume                TEXT,
		lot1_numero                  TEXT,
		lot1_surface_carrez          DOUBLE PRECISION,
		lot2_numero                  TEXT,
		lot2_surface_carrez          DOUBLE PRECISION,
		lot3_numero                  TEXT,
		lot3_surface_carrez          DOUBLE PRECISION,
		lot4_numero                  TEXT,
		lot4_surface_carrez          DOUBLE PRECISION,
		lot5_numero                  TEXT,
		lot5_surface_carrez          DOUBLE PRECISION,
		nombre_lots                  INTEGER,
		code_type_local              TEXT,
		type_local                   TEXT,
		surface_reelle_bati          DOUBLE PRECISION,
		nombre_pieces_principales    INTEGER,
		code_nature_culture          TEXT,
		nature_culture               TEXT,
		code_nature_culture_speciale TEXT,
		nature_culture_speciale      TEXT,
		surface_terrain              DOUBLE PRECISION,
		longitude                    DOUBLE PRECISION,
		latitude                     DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dvf_date_mutation ON dvf (date_mutation)`,
	`CREATE INDEX IF NOT EXISTS idx_dvf_id_mutation ON dvf (id_mutation)`,
	`CREATE INDEX IF NOT EXISTS idx_dvf_lat_lng ON dvf (latitude, longitude)`,
}

// NewDatabase establishes a GORM connection backed by pgx and makes sure the
// dvf table exists.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := ApplySchema(db); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	return db, nil
}

// ApplySchema runs SchemaStatements in order. Safe to re-run.
func ApplySchema(db *gorm.DB) error {
	for _, stmt := range SchemaStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("patch %q: %w", stmt[:min(len(stmt), 60)], err)
		}
	}
	return nil
}
