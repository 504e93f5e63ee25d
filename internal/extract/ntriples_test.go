package extract

import (
	"testing"

	"github.com/ppiankov/ntclean/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_References(t *testing.T) {
	line := "<http://www.wikidata.org/entity/Q1> <http://www.wikidata.org/prop/direct/P31> <http://www.wikidata.org/entity/Q2> .\n"

	triple, err := ParseLine(line)
	require.NoError(t, err)

	assert.Equal(t, model.Reference("http://www.wikidata.org/entity/Q1"), triple.Subject)
	assert.Equal(t, model.Reference("http://www.wikidata.org/prop/direct/P31"), triple.Predicate)
	assert.Equal(t, model.Reference("http://www.wikidata.org/entity/Q2"), triple.Object)
}

func TestParseLine_Literals(t *testing.T) {
	tests := []struct {
		name string
		line string
		want model.Term
	}{
		{
			name: "language tagged",
			line: `<http://www.wikidata.org/entity/Q1> <http://www.w3.org/2000/01/rdf-schema#label> "Earth"@en .`,
			want: model.Literal("Earth", "en"),
		},
		{
			name: "region subtag",
			line: `<http://x/Q1> <http://x/p> "colour"@en-gb .`,
			want: model.Literal("colour", "en-gb"),
		},
		{
			name: "plain",
			line: `<http://x/Q1> <http://example.org/unrelatedPredicate> "foo" .`,
			want: model.Literal("foo", ""),
		},
		{
			name: "typed",
			line: `<http://x/Q1> <http://x/P1082> "+42"^^<http://www.w3.org/2001/XMLSchema#decimal> .`,
			want: model.Literal("+42", ""),
		},
		{
			name: "escapes",
			line: `<http://x/Q1> <http://x/p> "a\tb\n\"c\" \\ d" .`,
			want: model.Literal("a\tb\n\"c\" \\ d", ""),
		},
		{
			name: "unicode escapes",
			line: `<http://x/Q1> <http://x/p> "café \U0001F600"@fr .`,
			want: model.Literal("café 😀", "fr"),
		},
		{
			name: "raw utf8",
			line: `<http://x/Q1> <http://x/p> "東京"@ja .`,
			want: model.Literal("東京", "ja"),
		},
		{
			name: "no whitespace before terminator",
			line: `<http://x/Q1> <http://x/p> "x"@de.`,
			want: model.Literal("x", "de"),
		},
		{
			name: "empty literal",
			line: `<http://x/Q1> <http://x/p> "" .`,
			want: model.Literal("", ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triple, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, triple.Object)
		})
	}
}

func TestParseLine_IRIEscapes(t *testing.T) {
	triple, err := ParseLine(`<http://www.wikidata.org/entity/\u0051\U0000003142> <http://x/P\u00331> <http://x/caf\u00E9> .`)
	require.NoError(t, err)

	assert.Equal(t, model.Reference("http://www.wikidata.org/entity/Q142"), triple.Subject)
	assert.Equal(t, model.Reference("http://x/P31"), triple.Predicate)
	assert.Equal(t, model.Reference("http://x/café"), triple.Object)
}

func TestParseLine_BlankNodes(t *testing.T) {
	triple, err := ParseLine("_:b1 <http://x/p> _:b2 .")
	require.NoError(t, err)

	assert.Equal(t, model.KindBlank, triple.Subject.Kind)
	assert.Equal(t, "b1", triple.Subject.Value)
	assert.Equal(t, model.KindBlank, triple.Object.Kind)
	assert.Equal(t, "b2", triple.Object.Value)
}

func TestParseLine_TrailingComment(t *testing.T) {
	triple, err := ParseLine("<http://x/Q1> <http://x/P2> <http://x/Q3> . # note\r\n")
	require.NoError(t, err)
	assert.Equal(t, "http://x/Q3", triple.Object.Value)
}

func TestParseLine_Empty(t *testing.T) {
	for _, line := range []string{"", "\n", "   \t", "# comment", "  # indented comment\n"} {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrEmpty, "line %q", line)
	}
}

func TestParseLine_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "garbage", line: "this is not a triple"},
		{name: "literal subject", line: `"s" <http://x/p> <http://x/o> .`},
		{name: "literal predicate", line: `<http://x/s> "p" <http://x/o> .`},
		{name: "missing object", line: `<http://x/s> <http://x/p> .`},
		{name: "missing predicate", line: `<http://x/s>`},
		{name: "missing terminator", line: `<http://x/s> <http://x/p> <http://x/o>`},
		{name: "unterminated IRI", line: `<http://x/s> <http://x/p> <http://x/o .`},
		{name: "unterminated literal", line: `<http://x/s> <http://x/p> "open .`},
		{name: "unterminated escape", line: `<http://x/s> <http://x/p> "a\`},
		{name: "unknown escape", line: `<http://x/s> <http://x/p> "a\qb" .`},
		{name: "short unicode escape", line: `<http://x/s> <http://x/p> "\u00" .`},
		{name: "empty language tag", line: `<http://x/s> <http://x/p> "a"@ .`},
		{name: "bad datatype", line: `<http://x/s> <http://x/p> "a"^^xsd:string .`},
		{name: "four terms", line: `<http://x/s> <http://x/p> <http://x/o> <http://x/g> .`},
		{name: "string escape in IRI", line: `<http://x/s\n> <http://x/p> <http://x/o> .`},
		{name: "bad unicode escape in IRI", line: `<http://x/\u00> <http://x/p> <http://x/o> .`},
		{name: "space in IRI", line: `<http://x/s t> <http://x/p> <http://x/o> .`},
		{name: "empty blank label", line: `_: <http://x/p> <http://x/o> .`},
		{name: "bare word object", line: `<http://x/s> <http://x/p> true .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), "column")
		})
	}
}
