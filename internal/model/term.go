package model

// TermKind tags the shape of an RDF term as it appeared in the statement
type TermKind int

const (
	KindUnknown   TermKind = 0 // Zero value, never produced by the parser
	KindReference TermKind = 1 // <http://...> IRI reference
	KindLiteral   TermKind = 2 // "text", "text"@lang or "text"^^<datatype>
	KindBlank     TermKind = 3 // _:label
)

func (k TermKind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindLiteral:
		return "literal"
	case KindBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Term is one raw RDF term of a statement
type Term struct {
	Kind  TermKind
	Value string // IRI text, unescaped literal lexical form, or blank node label
	Lang  string // Language tag of a literal, empty otherwise
}

// Reference builds an IRI reference term
func Reference(iri string) Term {
	return Term{Kind: KindReference, Value: iri}
}

// Literal builds a literal term with an optional language tag
func Literal(text, lang string) Term {
	return Term{Kind: KindLiteral, Value: text, Lang: lang}
}

// Triple is the parsed, unclassified form of one input line
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// ClassifiedTerm is a term reduced to its short identifier
type ClassifiedTerm struct {
	Identifier string // URI local name or literal text
	EntityLike bool   // Identifier starts with the anchor letter followed by digits
}

// Statement is a classified triple ready for routing
type Statement struct {
	Subject   ClassifiedTerm
	Predicate ClassifiedTerm
	Object    ClassifiedTerm

	PredicateText string // Predicate as written, before namespace stripping
	Lang          string // Language tag of the object literal, if any
}

// AllEntityLike reports whether every position holds an entity-like identifier
func (s Statement) AllEntityLike() bool {
	return s.Subject.EntityLike && s.Predicate.EntityLike && s.Object.EntityLike
}

// Record is one output line: exactly three fields
type Record [3]string
