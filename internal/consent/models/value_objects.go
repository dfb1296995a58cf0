package models

// Scope labels a processing purpose a user can consent to. Scope binding
// allows selective revocation without affecting other flows.
type Scope string

const (
	ScopeLLMProcessing   Scope = "LLM_PROCESSING"
	ScopeOutreachEmail   Scope = "OUTREACH_EMAIL"
	ScopeCalendarEvents  Scope = "CALENDAR_EVENTS"
	ScopeOffshoreStorage Scope = "OFFSHORE_STORAGE"
	ScopeAnalytics       Scope = "ANALYTICS"
)

// ValidScopes is the single source of truth for all valid consent scopes.
var ValidScopes = map[Scope]bool{
	ScopeLLMProcessing:   true,
	ScopeOutreachEmail:   true,
	ScopeCalendarEvents:  true,
	ScopeOffshoreStorage: true,
	ScopeAnalytics:       true,
}

// IsValid checks if the scope is one of the supported enum values.
func (s Scope) IsValid() bool {
	return ValidScopes[s]
}

// ParseScopes converts raw strings into scopes, reporting the first invalid one.
func ParseScopes(raw []string) ([]Scope, Scope, bool) {
	scopes := make([]Scope, 0, len(raw))
	for _, r := range raw {
		s := Scope(r)
		if !s.IsValid() {
			return nil, s, false
		}
		scopes = append(scopes, s)
	}
	return scopes, "", true
}
