package listing

import (
	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain/search/field"
)

// Collection is the document collection holding listings.
const Collection = "listings"

// collectionDefinition derives the filterable paths from the field table.
// Enumeration fields share their path with the equality field and are
// skipped by path de-duplication.
func collectionDefinition(t *field.Table) *db.CollectionDefinition {
	def := &db.CollectionDefinition{Name: Collection}
	seen := make(map[string]bool)

	for _, s := range t.Specs() {
		if seen[s.Path] {
			continue
		}
		seen[s.Path] = true

		ft := db.IndexFieldTag
		switch {
		case s.Kind == field.KindNumeric:
			ft = db.IndexFieldNumeric
		case s.Pattern:
			ft = db.IndexFieldSubstring
		}
		def.Fields = append(def.Fields, db.CollectionField{Path: s.Path, Type: ft})
	}
	return def
}
