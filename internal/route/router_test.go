package route

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/ntclean/internal/classify"
	"github.com/ppiankov/ntclean/internal/model"
)

const (
	rdfsLabel   = "http://www.w3.org/2000/01/rdf-schema#label"
	skosAlt     = "http://www.w3.org/2004/02/skos/core#altLabel"
	schemaName  = "http://schema.org/name"
	wdEntity    = "http://www.wikidata.org/entity/"
	wdtProperty = "http://www.wikidata.org/prop/direct/"
)

func statement(s, p, o model.Term) model.Statement {
	return classify.Statement(model.Triple{Subject: s, Predicate: p, Object: o})
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name   string
		stmt   model.Statement
		want   model.Disposition
		record model.Record
	}{
		{
			name:   "fact",
			stmt:   statement(model.Reference(wdEntity+"Q1"), model.Reference(wdtProperty+"P31"), model.Reference(wdEntity+"Q2")),
			want:   model.Fact,
			record: model.Record{"Q1", "P31", "Q2"},
		},
		{
			name:   "label",
			stmt:   statement(model.Reference(wdEntity+"Q1"), model.Reference(rdfsLabel), model.Literal("Earth", "en")),
			want:   model.Label,
			record: model.Record{"Q1", "label@en", "Earth"},
		},
		{
			name:   "alt label",
			stmt:   statement(model.Reference(wdEntity+"Q1"), model.Reference(skosAlt), model.Literal("Terre", "fr")),
			want:   model.Label,
			record: model.Record{"Q1", "altLabel@fr", "Terre"},
		},
		{
			name:   "label without language",
			stmt:   statement(model.Reference(wdEntity+"Q1"), model.Reference(rdfsLabel), model.Literal("Earth", "")),
			want:   model.Label,
			record: model.Record{"Q1", "label@", "Earth"},
		},
		{
			name:   "label pointing at a resource",
			stmt:   statement(model.Reference(wdEntity+"Q1"), model.Reference(rdfsLabel), model.Reference("http://x/thing")),
			want:   model.Label,
			record: model.Record{"Q1", "label@", "thing"},
		},
		{
			name:   "property with literal keeps predicate",
			stmt:   statement(model.Reference(wdEntity+"Q1"), model.Reference(wdtProperty+"P1082"), model.Literal("+42", "")),
			want:   model.Label,
			record: model.Record{"Q1", "P1082", "+42"},
		},
		{
			name:   "property subject keeps predicate",
			stmt:   statement(model.Reference(wdEntity+"P31"), model.Reference(wdtProperty+"P1629"), model.Reference(wdEntity+"Q21503252")),
			want:   model.Label,
			record: model.Record{"P31", "P1629", "Q21503252"},
		},
		{
			name: "unrelated predicate",
			stmt: statement(model.Reference(wdEntity+"Q1"), model.Reference("http://example.org/unrelatedPredicate"), model.Literal("foo", "")),
			want: model.Dropped,
		},
		{
			name: "schema name",
			stmt: statement(model.Reference(wdEntity+"Q1"), model.Reference(schemaName), model.Literal("Earth", "en")),
			want: model.Dropped,
		},
		{
			name: "empty statement",
			stmt: model.Statement{},
			want: model.Dropped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Route(tt.stmt)
			assert.Equal(t, tt.want, d.Disposition)
			assert.Equal(t, tt.record, d.Record)
		})
	}
}

func TestRoute_FactCriterion(t *testing.T) {
	entity := model.ClassifiedTerm{Identifier: "Q1", EntityLike: true}
	property := model.ClassifiedTerm{Identifier: "P1", EntityLike: true}
	other := model.ClassifiedTerm{Identifier: "x"}

	for mask := 0; mask < 8; mask++ {
		stmt := model.Statement{Subject: other, Predicate: other, Object: other, PredicateText: "http://x/x"}
		if mask&1 != 0 {
			stmt.Subject = entity
		}
		if mask&2 != 0 {
			stmt.Predicate = property
		}
		if mask&4 != 0 {
			stmt.Object = entity
		}

		d := Route(stmt)
		assert.Equal(t, mask == 7, d.Disposition == model.Fact, "mask %03b", mask)
		// Every statement gets exactly one disposition
		assert.Contains(t, []model.Disposition{model.Fact, model.Label, model.Dropped}, d.Disposition)
	}
}

func TestLabelPredicate_LastHash(t *testing.T) {
	stmt := model.Statement{PredicateText: "http://x/a#b/rdf-schema#label", Lang: "de"}

	got, ok := LabelPredicate(stmt)
	assert.True(t, ok)
	assert.Equal(t, "label@de", got)
}
