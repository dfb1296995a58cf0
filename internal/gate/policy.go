package gate

import (
	"strings"

	"privacygate/internal/platform/config"
)

// Decision is the outcome of a region-policy evaluation for one external call.
type Decision string

const (
	// DecisionAllow permits the call to the external provider as-is.
	DecisionAllow Decision = "allow"
	// DecisionDeny refuses the call outright.
	DecisionDeny Decision = "deny"
	// DecisionRouteLocal redirects the call to the local model instead of
	// the external provider.
	DecisionRouteLocal Decision = "route_local"
)

// Regions with data-residency rules a provider must explicitly satisfy.
const (
	RegionEU = "EU"
	RegionUS = "US"
)

// Policy holds the routing rules for external model calls. It is immutable
// after construction.
type Policy struct {
	Version       string
	DefaultRegion string
	// BlockExternal forces every external call to the local model,
	// regardless of provider or region.
	BlockExternal bool

	// compliance marks (provider, region) pairs the operator has attested
	// as compliant. A regulated region without an attestation routes local.
	compliance map[string]map[string]bool
}

// PolicyFromConfig builds the routing policy from process configuration.
func PolicyFromConfig(cfg config.Server) Policy {
	return Policy{
		Version:       cfg.PolicyVersion,
		DefaultRegion: cfg.DefaultRegion,
		BlockExternal: cfg.BlockExternal,
		compliance: map[string]map[string]bool{
			"openai":    {RegionEU: cfg.OpenAIEUCompliant},
			"anthropic": {RegionUS: cfg.AnthropicUSCompliant},
		},
	}
}

// EnforceRegion evaluates the decision table for one (provider, region) pair.
// The global block wins over everything; a regulated region requires the
// provider's compliance attestation; everything else is allowed. Unknown
// providers carry no attestations, so regulated regions route them local.
func (p Policy) EnforceRegion(provider, region string) Decision {
	if p.BlockExternal {
		return DecisionRouteLocal
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	region = strings.ToUpper(strings.TrimSpace(region))

	switch region {
	case RegionEU, RegionUS:
		if !p.compliance[provider][region] {
			return DecisionRouteLocal
		}
	}
	return DecisionAllow
}
