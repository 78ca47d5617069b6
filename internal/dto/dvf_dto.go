package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are served as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	DefaultLimit = 1000
	GroupedLimit = 1000
)

// BBox is a geographic bounding box in WGS84 degrees.
type BBox struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
}

// Contains reports whether the point lies inside the box, bounds inclusive.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// DVFFilter carries the optional query constraints. A nil field means
// "no constraint"; all non-nil fields are ANDed.
type DVFFilter struct {
	BBox       *BBox
	YearMin    *int
	YearMax    *int
	PriceMin   *float64
	PriceMax   *float64
	PriceM2Min *float64
	PriceM2Max *float64
	Limit      int
}

// HasPriceM2 reports whether any price-per-m² bound is set.
func (f DVFFilter) HasPriceM2() bool { return f.PriceM2Min != nil || f.PriceM2Max != nil }

// MutationResponse is one flat row returned by GET /api/dvf.
type MutationResponse struct {
	ID                        int64               `json:"id"`
	IDMutation                *string             `json:"id_mutation"`
	DateMutation              *string             `json:"date_mutation"`
	NumeroDisposition         *int64              `json:"numero_disposition"`
	NatureMutation            *string             `json:"nature_mutation"`
	ValeurFonciere            decimal.NullDecimal `json:"valeur_fonciere"`
	PricePerM2                decimal.NullDecimal `json:"price_per_m2"`
	AdresseNumero             *string             `json:"adresse_numero"`
	AdresseSuffixe            *string             `json:"adresse_suffixe"`
	AdresseNomVoie            *string             `json:"adresse_nom_voie"`
	AdresseCodeVoie           *string             `json:"adresse_code_voie"`
	CodePostal                *string             `json:"code_postal"`
	CodeCommune               *string             `json:"code_commune"`
	NomCommune                *string             `json:"nom_commune"`
	CodeDepartement           *string             `json:"code_departement"`
	AncienCodeCommune         *string             `json:"ancien_code_commune"`
	AncienNomCommune          *string             `json:"ancien_nom_commune"`
	IDParcelle                *string             `json:"id_parcelle"`
	AncienIDParcelle          *string             `json:"ancien_id_parcelle"`
	NumeroVolume              *string             `json:"numero_volume"`
	Lot1Numero                *string             `json:"lot1_numero"`
	Lot1SurfaceCarrez         *float64            `json:"lot1_surface_carrez"`
	Lot2Numero                *string             `json:"lot2_numero"`
	Lot2SurfaceCarrez         *float64            `json:"lot2_surface_carrez"`
	Lot3Numero                *string             `json:"lot3_numero"`
	Lot3SurfaceCarrez         *float64            `json:"lot3_surface_carrez"`
	Lot4Numero                *string             `json:"lot4_numero"`
	Lot4SurfaceCarrez         *float64            `json:"lot4_surface_carrez"`
	Lot5Numero                *string             `json:"lot5_numero"`
	Lot5SurfaceCarrez         *float64            `json:"lot5_surface_carrez"`
	NombreLots                *int64              `json:"nombre_lots"`
	CodeTypeLocal             *string             `json:"code_type_local"`
	TypeLocal                 *string             `json:"type_local"`
	SurfaceReelleBati         *float64            `json:"surface_reelle_bati"`
	NombrePiecesPrincipales   *int64              `json:"nombre_pieces_principales"`
	CodeNatureCulture         *string             `json:"code_nature_culture"`
	NatureCulture             *string             `json:"nature_culture"`
	CodeNatureCultureSpeciale *string             `json:"code_nature_culture_speciale"`
	NatureCultureSpeciale     *string             `json:"nature_culture_speciale"`
	SurfaceTerrain            *float64            `json:"surface_terrain"`
	Longitude                 *float64            `json:"longitude"`
	Latitude                  *float64            `json:"latitude"`
}

// LotResponse is one entry of the lots array of a grouped mutation.
type LotResponse struct {
	TypeLocal               *string  `json:"type_local"`
	SurfaceReelleBati       *float64 `json:"surface_reelle_bati"`
	NombrePiecesPrincipales *int64   `json:"nombre_pieces_principales"`
}

// GroupedMutationResponse is one sale returned by GET /api/dvf/grouped.
type GroupedMutationResponse struct {
	IDMutation     *string             `json:"id_mutation"`
	DateMutation   *string             `json:"date_mutation"`
	ValeurFonciere decimal.NullDecimal `json:"valeur_fonciere"`
	Latitude       *float64            `json:"latitude"`
	Longitude      *float64            `json:"longitude"`
	Adresse        string              `json:"adresse"`
	Lots           []LotResponse       `json:"lots"`
}

// FormatAdresse renders "<numero> <voie>, <code postal> <commune>".
// Null parts are dropped and the result never carries leading or trailing
// whitespace.
func FormatAdresse(numero, voie, codePostal, commune *string) string {
	street := joinNonEmpty(" ", numero, voie)
	city := joinNonEmpty(" ", codePostal, commune)
	switch {
	case street == "":
		return city
	case city == "":
		return street
	default:
		return street + ", " + city
	}
}

func joinNonEmpty(sep string, parts ...*string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		if s := strings.TrimSpace(*p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, sep)
}
