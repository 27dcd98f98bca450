package app

import (
	"context"

	"vx/internal/policies"
)

// ListTools reports every catalog runtime with its local status.
func (s Service) ListTools(ctx context.Context) ([]ToolListing, error) {
	policy := policies.NewSourcePolicy(s.Store, s.Locator, s.Config)

	var listings []ToolListing
	for _, name := range s.Catalog.KnownTools() {
		spec, ok := s.Catalog.GetSpec(name)
		if !ok {
			continue
		}
		status := policy.DetermineStatus(spec, "", nil)
		listings = append(listings, ToolListing{
			Name:        spec.Name,
			Description: spec.Description,
			Aliases:     spec.Aliases,
			Status:      string(status.Kind),
			Version:     status.Version,
			Path:        status.Path,
		})
	}
	return listings, nil
}
