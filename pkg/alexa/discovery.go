package alexa

import (
	"fmt"
	"sort"

	"github.com/dasbridge/bridge/pkg/shadow"
	"github.com/dasbridge/bridge/pkg/thing"
)

// ManufacturerName is advertised for every discovered endpoint.
const ManufacturerName = "the dasbridge project"

// Discover assembles the discovery document from the already-materialized
// shadows of a user's devices. The endpoint id is the raw thing name; the
// friendly name is its short form. A device whose shadow yields no live
// facet is dropped from the result entirely. No I/O.
func Discover(shadows map[string]*shadow.Document, now int64) ([]DiscoveryEndpoint, error) {
	names := make([]string, 0, len(shadows))
	for name := range shadows {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]DiscoveryEndpoint, 0, len(names))
	for _, name := range names {
		endpoint, err := discoverEndpoint(name, shadows[name], now)
		if err != nil {
			return nil, err
		}
		if len(endpoint.Capabilities) == 0 {
			continue
		}
		result = append(result, endpoint)
	}
	return result, nil
}

func discoverEndpoint(endpointID string, doc *shadow.Document, now int64) (DiscoveryEndpoint, error) {
	friendly, err := thing.ShortName(endpointID)
	if err != nil {
		return DiscoveryEndpoint{}, fmt.Errorf("endpoint %s: %w", endpointID, err)
	}

	endpoint := DiscoveryEndpoint{
		EndpointID:        endpointID,
		FriendlyName:      friendly,
		Description:       friendly + " Device",
		ManufacturerName:  ManufacturerName,
		DisplayCategories: []string{},
		Capabilities:      []Capability{},
	}

	categories := map[string]bool{}

	for _, facet := range ExtractLiveFacets(doc, now) {
		c, ok := lookupCapability(facet.Namespace)
		if !ok {
			continue
		}
		endpoint.Capabilities = append(endpoint.Capabilities, c.advertises...)
		if c.displayCategory != "" {
			categories[c.displayCategory] = true
		}
	}

	for category := range categories {
		endpoint.DisplayCategories = append(endpoint.DisplayCategories, category)
	}
	sort.Strings(endpoint.DisplayCategories)

	return endpoint, nil
}
