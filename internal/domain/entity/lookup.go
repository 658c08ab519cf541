package entity

import "github.com/google/uuid"

// LookupKind tags the two query strategies behind the free-text lookup.
type LookupKind int

const (
	// LookupByID fetches exactly one user by their unique identifier.
	LookupByID LookupKind = iota
	// LookupByEmailOrRole matches the term against both the email and the
	// role columns. The two identifier spaces are conflated on purpose:
	// this is the legacy combined lookup kept for compatibility.
	LookupByEmailOrRole
)

// LookupQuery is the classified form of a free-text lookup term.
type LookupQuery struct {
	Kind LookupKind
	ID   uuid.UUID // Set when Kind is LookupByID.
	Term string    // Lower-cased term when Kind is LookupByEmailOrRole.
}

// ClassifyLookupTerm decides which query strategy a free-text term selects.
// A term that parses as a UUID is an ID lookup; anything else is matched
// case-insensitively against email or role. This is the single place the
// format sniff happens; callers receive a tagged query, not a guess.
func ClassifyLookupTerm(term string) LookupQuery {
	if id, err := uuid.Parse(term); err == nil {
		return LookupQuery{Kind: LookupByID, ID: id}
	}

	return LookupQuery{Kind: LookupByEmailOrRole, Term: NormalizeEmail(term)}
}
