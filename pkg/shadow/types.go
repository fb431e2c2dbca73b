package shadow

// Tree is one side of a shadow state or metadata document, keyed by
// capability namespace (e.g. "Alexa.PowerController"). Below the namespace
// the shape is version -> property, with color properties nested one level
// deeper. Values in a metadata tree are {"timestamp": <epoch seconds>}
// leaves mirroring the state tree.
type Tree map[string]any

// State holds the reported and desired capability trees of a shadow.
type State struct {
	Reported Tree `json:"reported,omitempty"`
	Desired  Tree `json:"desired,omitempty"`
}

// Document is a device shadow as held by the broker: the last state the
// device reported, the state it should converge to, and per-property
// report timestamps.
type Document struct {
	State     State `json:"state"`
	Metadata  State `json:"metadata"`
	Version   int64 `json:"version"`
	Timestamp int64 `json:"timestamp"`
}

// ReportedValue walks the reported state tree along path and returns the
// value at the leaf. The second return is false if any path segment is
// missing or a non-object appears before the final segment.
func (d *Document) ReportedValue(path ...string) (any, bool) {
	return walk(d.State.Reported, path)
}

// ReportedTimestamp walks the reported metadata tree along path and reads
// the "timestamp" leaf below it. Missing or non-numeric timestamps report
// false.
func (d *Document) ReportedTimestamp(path ...string) (int64, bool) {
	v, ok := walk(d.Metadata.Reported, append(path, "timestamp"))
	if !ok {
		return 0, false
	}
	ts, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(ts), true
}

func walk(t Tree, path []string) (any, bool) {
	if t == nil {
		return nil, false
	}
	var cur any = map[string]any(t)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
