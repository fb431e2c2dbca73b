package shadow

import (
	"errors"
	"testing"
)

const sampleDocument = `{
	"state": {
		"reported": {
			"Alexa.PowerController": {"3": {"powerState": "ON"}}
		},
		"desired": {
			"Alexa.PowerController": {"3": {"powerState": "OFF"}}
		}
	},
	"metadata": {
		"reported": {
			"Alexa.PowerController": {"3": {"powerState": {"timestamp": 1700000000}}}
		}
	},
	"version": 12,
	"timestamp": 1700000100
}`

func TestDecode_RawJSON(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok := doc.ReportedValue("Alexa.PowerController", "3", "powerState")
	if !ok {
		t.Fatal("expected powerState in reported state")
	}
	if v != "ON" {
		t.Errorf("powerState = %v, want ON", v)
	}
	if doc.Version != 12 {
		t.Errorf("version = %d, want 12", doc.Version)
	}
}

func TestDecode_JSONStringWrapped(t *testing.T) {
	wrapped := `"{\"state\":{\"reported\":{\"Alexa.PowerController\":{\"3\":{\"powerState\":\"OFF\"}}}},\"version\":3}"`

	doc, err := Decode([]byte(wrapped))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok := doc.ReportedValue("Alexa.PowerController", "3", "powerState")
	if !ok {
		t.Fatal("expected powerState in reported state")
	}
	if v != "OFF" {
		t.Errorf("powerState = %v, want OFF", v)
	}
}

func TestDecode_LeadingWhitespace(t *testing.T) {
	if _, err := Decode([]byte("  \n\t" + sampleDocument)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecode_EmptyPayload(t *testing.T) {
	for _, payload := range [][]byte{nil, {}, []byte("   ")} {
		if _, err := Decode(payload); !errors.Is(err, ErrDecoding) {
			t.Errorf("Decode(%q): expected ErrDecoding, got %v", payload, err)
		}
	}
}

func TestDecode_UnexpectedEncoding(t *testing.T) {
	if _, err := Decode([]byte("[1,2,3]")); !errors.Is(err, ErrDecoding) {
		t.Errorf("expected ErrDecoding for array payload, got %v", err)
	}
	if _, err := Decode([]byte("not json")); !errors.Is(err, ErrDecoding) {
		t.Errorf("expected ErrDecoding for garbage payload, got %v", err)
	}
}

func TestDecode_MalformedInnerString(t *testing.T) {
	if _, err := Decode([]byte(`"{broken"`)); !errors.Is(err, ErrDecoding) {
		t.Errorf("expected ErrDecoding for malformed wrapped document, got %v", err)
	}
}

func TestReportedTimestamp(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatal(err)
	}

	ts, ok := doc.ReportedTimestamp("Alexa.PowerController", "3", "powerState")
	if !ok {
		t.Fatal("expected a reported timestamp")
	}
	if ts != 1700000000 {
		t.Errorf("timestamp = %d, want 1700000000", ts)
	}

	if _, ok := doc.ReportedTimestamp("Alexa.ColorController", "3", "color", "hue"); ok {
		t.Error("expected no timestamp for absent capability")
	}
}

func TestReportedValue_MissingPath(t *testing.T) {
	doc := &Document{}
	if _, ok := doc.ReportedValue("Alexa.PowerController", "3", "powerState"); ok {
		t.Error("expected miss on empty document")
	}

	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.ReportedValue("Alexa.PowerController", "3", "powerState", "deeper"); ok {
		t.Error("expected miss when path continues past a leaf")
	}
}
