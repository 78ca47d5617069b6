// Package loader ingests DVF CSV exports into the dvf table.
//
// A run walks data/<batch>/*.csv, coerces every row into a fixed-width Record
// following the column order of Fields, and hands the records to a
// BatchWriter in fixed-size groups. Each group becomes one multi-row INSERT,
// so a batch is all-or-nothing while a file is not.
package loader

type fieldKind int

const (
	kindText fieldKind = iota
	kindFloat
	kindInt
)

// Fields lists the loaded columns in insert order (the identity column is
// assigned by the database).
var Fields = []string{
	"id_mutation", "date_mutation", "numero_disposition", "nature_mutation", "valeur_fonciere",
	"adresse_numero", "adresse_suffixe", "adresse_nom_voie", "adresse_code_voie",
	"code_postal", "code_commune", "nom_commune", "code_departement",
	"ancien_code_commune", "ancien_nom_commune", "id_parcelle", "ancien_id_parcelle",
	"numero_volume", "lot1_numero", "lot1_surface_carrez", "lot2_numero", "lot2_surface_carrez",
	"lot3_numero", "lot3_surface_carrez", "lot4_numero", "lot4_surface_carrez",
	"lot5_numero", "lot5_surface_carrez", "nombre_lots",
	"code_type_local", "type_local", "surface_reelle_bati", "nombre_pieces_principales",
	"code_nature_culture", "nature_culture", "code_nature_culture_speciale",
	"nature_culture_speciale", "surface_terrain", "longitude", "latitude",
}

var fieldKinds = map[string]fieldKind{
	"valeur_fonciere":           kindFloat,
	"surface_reelle_bati":       kindFloat,
	"lot1_surface_carrez":       kindFloat,
	"lot2_surface_carrez":       kindFloat,
	"lot3_surface_carrez":       kindFloat,
	"lot4_surface_carrez":       kindFloat,
	"lot5_surface_carrez":       kindFloat,
	"surface_terrain":           kindFloat,
	"latitude":                  kindFloat,
	"longitude":                 kindFloat,
	"numero_disposition":        kindInt,
	"nombre_lots":               kindInt,
	"nombre_pieces_principales": kindInt,
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(Fields))
	for i, f := range Fields {
		idx[f] = i
	}
	return idx
}()

const (
	DefaultBatchSize = 500

	// maxBindParams is the Postgres wire-protocol limit on parameters per statement.
	maxBindParams = 65535
)

// MaxBatchSize is the largest batch whose flattened parameters still fit in
// one statement.
var MaxBatchSize = maxBindParams / len(Fields)
