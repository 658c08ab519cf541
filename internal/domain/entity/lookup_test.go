package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClassifyLookupTerm(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		term     string
		expected LookupQuery
	}{
		{
			name:     "canonical uuid selects id lookup",
			term:     id.String(),
			expected: LookupQuery{Kind: LookupByID, ID: id},
		},
		{
			name:     "email selects combined lookup",
			term:     "user@example.com",
			expected: LookupQuery{Kind: LookupByEmailOrRole, Term: "user@example.com"},
		},
		{
			name:     "role name selects combined lookup",
			term:     "admin",
			expected: LookupQuery{Kind: LookupByEmailOrRole, Term: "admin"},
		},
		{
			name:     "term is lower-cased and trimmed",
			term:     "  User@Example.COM ",
			expected: LookupQuery{Kind: LookupByEmailOrRole, Term: "user@example.com"},
		},
		{
			name:     "almost-uuid falls through to combined lookup",
			term:     id.String()[:35],
			expected: LookupQuery{Kind: LookupByEmailOrRole, Term: id.String()[:35]},
		},
		{
			name:     "empty term selects combined lookup",
			term:     "",
			expected: LookupQuery{Kind: LookupByEmailOrRole, Term: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyLookupTerm(tt.term))
		})
	}
}
