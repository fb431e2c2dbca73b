package alexa

import (
	"strconv"

	"github.com/dasbridge/bridge/pkg/shadow"
)

// StaleAfterSeconds is the liveness cutoff: a reported property older than
// this (per its metadata timestamp) is treated as absent everywhere.
const StaleAfterSeconds = 1800

// Facet is one capability's current values as read from a shadow, valid
// only while live.
type Facet struct {
	Namespace string
	Version   string
	Values    map[string]any
	Timestamp int64
}

// capability describes how one known capability namespace appears inside a
// shadow and how it is advertised and reported externally. The set is fixed;
// supporting a new interface means adding an entry here, never branching on
// namespace at a call site.
type capability struct {
	namespace string
	version   string

	// clock is the path under state.reported.<ns>.<ver> whose metadata
	// timestamp gates liveness for the whole facet.
	clock []string

	// values maps facet value names to their paths under <ns>.<ver>.
	// Every value must be present for the facet to be emitted.
	values map[string][]string

	// advertises are the capability entries contributed to a discovery
	// endpoint when the facet is live.
	advertises []Capability

	// displayCategory contributed when live; empty contributes none.
	displayCategory string

	// reportName and reportValue shape the facet into a state-report
	// property. A nil reportValue means the raw single value is used.
	reportName  string
	reportValue func(values map[string]any) (any, bool)
}

var capabilities = []capability{
	{
		namespace: NamespaceTemperature,
		version:   "3",
		clock:     []string{"temp"},
		values:    map[string][]string{"temp": {"temp"}},
		advertises: []Capability{{
			Type:                "AlexaInterface",
			Interface:           NamespaceTemperature,
			Version:             "3",
			Properties:          &CapabilityProperties{Supported: []PropertyName{{Name: "temperature"}}},
			ProactivelyReported: boolPtr(false),
			Retrievable:         boolPtr(true),
		}},
		displayCategory: "TEMPERATURE_SENSOR",
		reportName:      "temperature",
		reportValue: func(values map[string]any) (any, bool) {
			v, ok := fixed(values["temp"], 1)
			if !ok {
				return nil, false
			}
			return map[string]any{"value": v, "scale": "CELSIUS"}, true
		},
	},
	{
		namespace: NamespaceColor,
		version:   "3",
		// Liveness keys on the hue timestamp alone; saturation and
		// brightness ride along once hue is considered current.
		clock: []string{"color", "hue"},
		values: map[string][]string{
			"hue":        {"color", "hue"},
			"saturation": {"color", "saturation"},
			"brightness": {"color", "brightness"},
		},
		advertises: []Capability{
			{
				Type:                "AlexaInterface",
				Interface:           NamespaceColor,
				Version:             "3",
				Properties:          &CapabilityProperties{Supported: []PropertyName{{Name: "color"}}},
				ProactivelyReported: boolPtr(true),
				Retrievable:         boolPtr(true),
			},
			// Controllable devices must also advertise the bare Alexa
			// interface marker.
			{
				Type:      "AlexaInterface",
				Interface: NamespaceAlexa,
				Version:   "3",
			},
		},
		displayCategory: "LIGHT",
		reportName:      "color",
		reportValue: func(values map[string]any) (any, bool) {
			hue, ok := fixed(values["hue"], 1)
			if !ok {
				return nil, false
			}
			sat, ok := fixed(values["saturation"], 4)
			if !ok {
				return nil, false
			}
			bri, ok := fixed(values["brightness"], 4)
			if !ok {
				return nil, false
			}
			return map[string]any{"hue": hue, "saturation": sat, "brightness": bri}, true
		},
	},
	{
		namespace: NamespacePower,
		version:   "3",
		clock:     []string{"powerState"},
		values:    map[string][]string{"powerState": {"powerState"}},
		advertises: []Capability{{
			Type:                "AlexaInterface",
			Interface:           NamespacePower,
			Version:             "3",
			Properties:          &CapabilityProperties{Supported: []PropertyName{{Name: "state"}}},
			ProactivelyReported: boolPtr(true),
			Retrievable:         boolPtr(true),
		}},
		reportName: "powerState",
	},
}

// ExtractLiveFacets inspects a shadow and returns the facets whose clock
// timestamp is present, numeric and no older than StaleAfterSeconds before
// now. Stale or incomplete facets are silently omitted; staleness is never
// an error. Pure: no I/O, deterministic given the document and clock.
func ExtractLiveFacets(doc *shadow.Document, now int64) []Facet {
	var facets []Facet

	for _, c := range capabilities {
		clockPath := append([]string{c.namespace, c.version}, c.clock...)
		ts, ok := doc.ReportedTimestamp(clockPath...)
		if !ok || ts < now-StaleAfterSeconds {
			continue
		}

		values := make(map[string]any, len(c.values))
		complete := true
		for name, rel := range c.values {
			path := append([]string{c.namespace, c.version}, rel...)
			v, ok := doc.ReportedValue(path...)
			if !ok {
				complete = false
				break
			}
			values[name] = v
		}
		if !complete {
			continue
		}

		facets = append(facets, Facet{
			Namespace: c.namespace,
			Version:   c.version,
			Values:    values,
			Timestamp: ts,
		})
	}

	return facets
}

// lookupCapability returns the table entry for a namespace.
func lookupCapability(namespace string) (capability, bool) {
	for _, c := range capabilities {
		if c.namespace == namespace {
			return c, true
		}
	}
	return capability{}, false
}

// fixed renders a numeric value with a fixed number of decimals, matching
// the wire format the platform expects for sensor values.
func fixed(v any, decimals int) (string, bool) {
	f, ok := v.(float64)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', decimals, 64), true
}
