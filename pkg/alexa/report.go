package alexa

import (
	"time"

	"github.com/dasbridge/bridge/pkg/shadow"
)

// uncertaintyMillis is reported for every property sample.
const uncertaintyMillis = 1000

// isoTimeFormat matches the millisecond-precision UTC timestamps the
// platform expects.
const isoTimeFormat = "2006-01-02T15:04:05.000Z"

// ReportState assembles a point-in-time state report for one device from
// its shadow: one property entry per live facet, with timeOfSample taken
// from the facet's stored report timestamp, not the current clock.
func ReportState(doc *shadow.Document, endpointID string, requestHeader Header, now int64) *Response {
	header := requestHeader
	header.Name = "StateReport"

	properties := []Property{}
	for _, facet := range ExtractLiveFacets(doc, now) {
		c, ok := lookupCapability(facet.Namespace)
		if !ok {
			continue
		}

		var value any
		if c.reportValue != nil {
			v, ok := c.reportValue(facet.Values)
			if !ok {
				continue
			}
			value = v
		} else {
			value = facet.Values[c.reportName]
		}

		properties = append(properties, Property{
			Namespace:                 facet.Namespace,
			Name:                      c.reportName,
			Value:                     value,
			TimeOfSample:              isoTime(time.Unix(facet.Timestamp, 0)),
			UncertaintyInMilliseconds: uncertaintyMillis,
		})
	}

	return &Response{
		Event: Event{
			Header:   header,
			Endpoint: &Endpoint{EndpointID: endpointID},
			Payload:  struct{}{},
		},
		Context: &Context{Properties: properties},
	}
}

func isoTime(t time.Time) string {
	return t.UTC().Format(isoTimeFormat)
}
