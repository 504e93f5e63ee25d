// Package classify reduces raw RDF terms to short identifiers and decides
// whether each identifier looks like a Wikidata entity or property code.
package classify

import (
	"strings"

	"github.com/ppiankov/ntclean/internal/model"
)

// Anchor letters of entity-like identifiers per statement position
const (
	EntityAnchor   byte = 'Q' // Subject and object: Q31
	PropertyAnchor byte = 'P' // Predicate: P31
)

// Term classifies one raw term against the given anchor letter.
// It never fails: unrecognized terms yield an empty, non-entity identifier.
func Term(term model.Term, anchor byte) model.ClassifiedTerm {
	id := Identifier(term)
	return model.ClassifiedTerm{
		Identifier: id,
		EntityLike: IsEntityLike(id, anchor),
	}
}

// Identifier returns the short form of a term: the text after the last '/'
// of a reference, or the lexical value of a literal.
func Identifier(term model.Term) string {
	switch term.Kind {
	case model.KindReference:
		return term.Value[strings.LastIndexByte(term.Value, '/')+1:]
	case model.KindLiteral:
		return term.Value
	default:
		return ""
	}
}

// IsEntityLike reports whether id starts with anchor followed by at least one
// decimal digit. Anything after the digits is ignored.
func IsEntityLike(id string, anchor byte) bool {
	return len(id) >= 2 && id[0] == anchor && id[1] >= '0' && id[1] <= '9'
}

// Statement classifies all three terms of a triple. It allocates nothing and
// is safe for concurrent use.
func Statement(t model.Triple) model.Statement {
	return model.Statement{
		Subject:       Term(t.Subject, EntityAnchor),
		Predicate:     Term(t.Predicate, PropertyAnchor),
		Object:        Term(t.Object, EntityAnchor),
		PredicateText: t.Predicate.Value,
		Lang:          t.Object.Lang,
	}
}
