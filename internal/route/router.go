package route

import (
	"strings"

	"github.com/ppiankov/ntclean/internal/model"
)

// Predicate fragments that mark a label statement worth keeping
var labelPredicates = []string{
	"rdf-schema#label",
	"core#altLabel",
}

// Decision is the outcome of routing one statement
type Decision struct {
	Disposition model.Disposition
	Record      model.Record // Zero when Disposition is Dropped
}

// Route decides which stream a statement belongs to and, for the label
// stream, rewrites the predicate into a kind@lang tag.
func Route(stmt model.Statement) Decision {
	if stmt.AllEntityLike() {
		return Decision{
			Disposition: model.Fact,
			Record:      model.Record{stmt.Subject.Identifier, stmt.Predicate.Identifier, stmt.Object.Identifier},
		}
	}

	predicate, ok := LabelPredicate(stmt)
	if !ok {
		return Decision{Disposition: model.Dropped}
	}
	return Decision{
		Disposition: model.Label,
		Record:      model.Record{stmt.Subject.Identifier, predicate, stmt.Object.Identifier},
	}
}

// LabelPredicate returns the predicate field for the label stream.
// Property codes pass through untouched even though the rest of the
// statement failed the fact test.
func LabelPredicate(stmt model.Statement) (string, bool) {
	if stmt.Predicate.EntityLike {
		return stmt.Predicate.Identifier, true
	}
	if !isLabelPredicate(stmt.PredicateText) {
		return "", false
	}
	kind := stmt.PredicateText[strings.LastIndexByte(stmt.PredicateText, '#')+1:]
	return kind + "@" + stmt.Lang, true
}

func isLabelPredicate(text string) bool {
	for _, fragment := range labelPredicates {
		if strings.Contains(text, fragment) {
			return true
		}
	}
	return false
}
