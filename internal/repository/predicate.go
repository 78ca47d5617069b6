package repository

import (
	"strings"

	"github.com/romaxnova/dvf-api/internal/dto"

	"gorm.io/gorm"
)

// Condition is one SQL boolean expression with '?' placeholders and the
// arguments bound to them, in order.
type Condition struct {
	Clause string
	Args   []any
}

// Predicate is an ordered conjunction of conditions. The zero value matches
// every row.
type Predicate struct {
	conds []Condition
}

func (p *Predicate) Add(clause string, args ...any) {
	p.conds = append(p.conds, Condition{Clause: clause, Args: args})
}

func (p Predicate) Conditions() []Condition { return p.conds }

func (p Predicate) Empty() bool { return len(p.conds) == 0 }

// SQL joins the conditions with AND and flattens their arguments.
func (p Predicate) SQL() (string, []any) {
	clauses := make([]string, 0, len(p.conds))
	var args []any
	for _, c := range p.conds {
		clauses = append(clauses, "("+c.Clause+")")
		args = append(args, c.Args...)
	}
	return strings.Join(clauses, " AND "), args
}

// Apply adds the predicate to a GORM query as a single WHERE clause.
func (p Predicate) Apply(q *gorm.DB) *gorm.DB {
	if p.Empty() {
		return q
	}
	sql, args := p.SQL()
	return q.Where(sql, args...)
}

// BuildPredicate translates a filter into SQL conditions, in a fixed order:
// bbox, years, price, price per m².
func BuildPredicate(f dto.DVFFilter) Predicate {
	var p Predicate
	if b := f.BBox; b != nil {
		p.Add("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat)
		p.Add("longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng)
	}
	if f.YearMin != nil {
		p.Add("EXTRACT(YEAR FROM date_mutation) >= ?", *f.YearMin)
	}
	if f.YearMax != nil {
		p.Add("EXTRACT(YEAR FROM date_mutation) <= ?", *f.YearMax)
	}
	if f.PriceMin != nil {
		p.Add("valeur_fonciere >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		p.Add("valeur_fonciere <= ?", *f.PriceMax)
	}
	// A null or non-positive surface leaves price per m² undefined, which
	// never satisfies a bound.
	if f.PriceM2Min != nil {
		p.Add("surface_reelle_bati > 0 AND valeur_fonciere / surface_reelle_bati >= ?", *f.PriceM2Min)
	}
	if f.PriceM2Max != nil {
		p.Add("surface_reelle_bati > 0 AND valeur_fonciere / surface_reelle_bati <= ?", *f.PriceM2Max)
	}
	return p
}
