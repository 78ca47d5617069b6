package loader

import (
	"time"

	"github.com/romaxnova/dvf-api/internal/model"

	"github.com/shopspring/decimal"
)

// Record is one coerced CSV row, aligned with Fields.
type Record []any

func (r Record) strAt(field string) *string {
	if s, ok := r[fieldIndex[field]].(string); ok {
		return &s
	}
	return nil
}

func (r Record) floatAt(field string) *float64 {
	if f, ok := r[fieldIndex[field]].(float64); ok {
		return &f
	}
	return nil
}

func (r Record) intAt(field string) *int64 {
	if n, ok := r[fieldIndex[field]].(int64); ok {
		return &n
	}
	return nil
}

// Mutation maps the record onto the persisted model. A date_mutation that is
// not ISO formatted is kept as null.
func (r Record) Mutation() model.Mutation {
	m := model.Mutation{
		IDMutation:                r.strAt("id_mutation"),
		NumeroDisposition:         r.intAt("numero_disposition"),
		NatureMutation:            r.strAt("nature_mutation"),
		AdresseNumero:             r.strAt("adresse_numero"),
		AdresseSuffixe:            r.strAt("adresse_suffixe"),
		AdresseNomVoie:            r.strAt("adresse_nom_voie"),
		AdresseCodeVoie:           r.strAt("adresse_code_voie"),
		CodePostal:                r.strAt("code_postal"),
		CodeCommune:               r.strAt("code_commune"),
		NomCommune:                r.strAt("nom_commune"),
		CodeDepartement:           r.strAt("code_departement"),
		AncienCodeCommune:         r.strAt("ancien_code_commune"),
		AncienNomCommune:          r.strAt("ancien_nom_commune"),
		IDParcelle:                r.strAt("id_parcelle"),
		AncienIDParcelle:          r.strAt("ancien_id_parcelle"),
		NumeroVolume:              r.strAt("numero_volume"),
		Lot1Numero:                r.strAt("lot1_numero"),
		Lot1SurfaceCarrez:         r.floatAt("lot1_surface_carrez"),
		Lot2Numero:                r.strAt("lot2_numero"),
		Lot2SurfaceCarrez:         r.floatAt("lot2_surface_carrez"),
		Lot3Numero:                r.strAt("lot3_numero"),
		Lot3SurfaceCarrez:         r.floatAt("lot3_surface_carrez"),
		Lot4Numero:                r.strAt("lot4_numero"),
		Lot4SurfaceCarrez:         r.floatAt("lot4_surface_carrez"),
		Lot5Numero:                r.strAt("lot5_numero"),
		Lot5SurfaceCarrez:         r.floatAt("lot5_surface_carrez"),
		NombreLots:                r.intAt("nombre_lots"),
		CodeTypeLocal:             r.strAt("code_type_local"),
		TypeLocal:                 r.strAt("type_local"),
		SurfaceReelleBati:         r.floatAt("surface_reelle_bati"),
		NombrePiecesPrincipales:   r.intAt("nombre_pieces_principales"),
		CodeNatureCulture:         r.strAt("code_nature_culture"),
		NatureCulture:             r.strAt("nature_culture"),
		CodeNatureCultureSpeciale: r.strAt("code_nature_culture_speciale"),
		NatureCultureSpeciale:     r.strAt("nature_culture_speciale"),
		SurfaceTerrain:            r.floatAt("surface_terrain"),
		Longitude:                 r.floatAt("longitude"),
		Latitude:                  r.floatAt("latitude"),
	}
	if s := r.strAt("date_mutation"); s != nil {
		if d, err := time.Parse(time.DateOnly, *s); err == nil {
			m.DateMutation = &d
		}
	}
	if f := r.floatAt("valeur_fonciere"); f != nil {
		m.ValeurFonciere = decimal.NewNullDecimal(decimal.NewFromFloat(*f))
	}
	return m
}
