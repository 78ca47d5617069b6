package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TableName is the single wide table every loaded DVF row lands in.
const TableName = "dvf"

// Mutation is one lot-level row of the DVF dataset. Several rows share the
// same IDMutation when a sale covers more than one lot.
// Rows are append-only: written by the loader, never updated or deleted.
type Mutation struct {
	ID                        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	IDMutation                *string             `gorm:"column:id_mutation;index"`
	DateMutation              *time.Time          `gorm:"column:date_mutation;type:date;index"`
	NumeroDisposition         *int64              `gorm:"column:numero_disposition"`
	NatureMutation            *string             `gorm:"column:nature_mutation"`
	ValeurFonciere            decimal.NullDecimal `gorm:"column:valeur_fonciere;type:numeric"`
	AdresseNumero             *string             `gorm:"column:adresse_numero"`
	AdresseSuffixe            *string             `gorm:"column:adresse_suffixe"`
	AdresseNomVoie            *string             `gorm:"column:adresse_nom_voie"`
	AdresseCodeVoie           *string             `gorm:"column:adresse_code_voie"`
	CodePostal                *string             `gorm:"column:code_postal"`
	CodeCommune               *string             `gorm:"column:code_commune"`
	NomCommune                *string             `gorm:"column:nom_commune"`
	CodeDepartement           *string             `gorm:"column:code_departement"`
	AncienCodeCommune         *string             `gorm:"column:ancien_code_commune"`
	AncienNomCommune          *string             `gorm:"column:ancien_nom_commune"`
	IDParcelle                *string             `gorm:"column:id_parcelle"`
	AncienIDParcelle          *string             `gorm:"column:ancien_id_parcelle"`
	NumeroVolume              *string             `gorm:"column:numero_volume"`
	Lot1Numero                *string             `gorm:"column:lot1_numero"`
	Lot1SurfaceCarrez         *float64            `gorm:"column:lot1_surface_carrez"`
	Lot2Numero                *string             `gorm:"column:lot2_numero"`
	Lot2SurfaceCarrez         *float64            `gorm:"column:lot2_surface_carrez"`
	Lot3Numero                *string             `gorm:"column:lot3_numero"`
	Lot3SurfaceCarrez         *float64            `gorm:"column:lot3_surface_carrez"`
	Lot4Numero                *string             `gorm:"column:lot4_numero"`
	Lot4SurfaceCarrez         *float64            `gorm:"column:lot4_surface_carrez"`
	Lot5Numero                *string             `gorm:"column:lot5_numero"`
	Lot5SurfaceCarrez         *float64            `gorm:"column:lot5_surface_carrez"`
	NombreLots                *int64              `gorm:"column:nombre_lots"`
	CodeTypeLocal             *string             `gorm:"column:code_type_local"`
	TypeLocal                 *string             `gorm:"column:type_local"`
	SurfaceReelleBati         *float64            `gorm:"column:surface_reelle_bati"`
	NombrePiecesPrincipales   *int64              `gorm:"column:nombre_pieces_principales"`
	CodeNatureCulture         *string             `gorm:"column:code_nature_culture"`
	NatureCulture             *string             `gorm:"column:nature_culture"`
	CodeNatureCultureSpeciale *string             `gorm:"column:code_nature_culture_speciale"`
	NatureCultureSpeciale     *string             `gorm:"column:nature_culture_speciale"`
	SurfaceTerrain            *float64            `gorm:"column:surface_terrain"`
	Longitude                 *float64            `gorm:"column:longitude"`
	Latitude                  *float64            `gorm:"column:latitude"`
}

func (Mutation) TableName() string { return TableName }

// PricePerM2 returns valeur_fonciere / surface_reelle_bati.
// ok is false when either operand is null or the surface is not positive.
func (m *Mutation) PricePerM2() (decimal.Decimal, bool) {
	if !m.ValeurFonciere.Valid || m.SurfaceReelleBati == nil || *m.SurfaceReelleBati <= 0 {
		return decimal.Zero, false
	}
	return m.ValeurFonciere.Decimal.Div(decimal.NewFromFloat(*m.SurfaceReelleBati)), true
}

// Year returns the calendar year of DateMutation; ok is false when the date is null.
func (m *Mutation) Year() (int, bool) {
	if m.DateMutation == nil {
		return 0, false
	}
	return m.DateMutation.Year(), true
}

// Lot is the per-row part of a grouped mutation.
type Lot struct {
	TypeLocal               *string  `json:"type_local"`
	SurfaceReelleBati       *float64 `json:"surface_reelle_bati"`
	NombrePiecesPrincipales *int64   `json:"nombre_pieces_principales"`
}

// MutationGroup is one logical sale: the rows sharing an id_mutation and the
// same descriptive fields, with their lots aggregated.
type MutationGroup struct {
	IDMutation     *string                  `gorm:"column:id_mutation"`
	DateMutation   *time.Time               `gorm:"column:date_mutation"`
	ValeurFonciere decimal.NullDecimal      `gorm:"column:valeur_fonciere"`
	Latitude       *float64                 `gorm:"column:latitude"`
	Longitude      *float64                 `gorm:"column:longitude"`
	AdresseNumero  *string                  `gorm:"column:adresse_numero"`
	AdresseNomVoie *string                  `gorm:"column:adresse_nom_voie"`
	CodePostal     *string                  `gorm:"column:code_postal"`
	NomCommune     *string                  `gorm:"column:nom_commune"`
	Lots           datatypes.JSONSlice[Lot] `gorm:"column:lots"`
}
