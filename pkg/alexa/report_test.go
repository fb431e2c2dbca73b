package alexa

import (
	"testing"
	"time"
)

func requestHeader(namespace, name string) Header {
	return Header{
		Namespace:        namespace,
		Name:             name,
		PayloadVersion:   PayloadVersion,
		MessageID:        "msg-1",
		CorrelationToken: "corr-1",
	}
}

func findProperty(t *testing.T, resp *Response, namespace string) Property {
	t.Helper()
	if resp.Context == nil {
		t.Fatal("response has no context")
	}
	for _, p := range resp.Context.Properties {
		if p.Namespace == namespace {
			return p
		}
	}
	t.Fatalf("no property for %s in %+v", namespace, resp.Context.Properties)
	return Property{}
}

func TestReportState_Temperature(t *testing.T) {
	doc := temperatureDoc(t, 21.55, 120)
	resp := ReportState(doc, "TESTUSER_sensor", requestHeader(NamespaceAlexa, NameReportState), testNow)

	if resp.Event.Header.Name != "StateReport" {
		t.Errorf("header name = %s, want StateReport", resp.Event.Header.Name)
	}
	if resp.Event.Header.CorrelationToken != "corr-1" {
		t.Errorf("correlationToken = %s, want corr-1", resp.Event.Header.CorrelationToken)
	}
	if resp.Event.Endpoint == nil || resp.Event.Endpoint.EndpointID != "TESTUSER_sensor" {
		t.Fatalf("endpoint = %+v, want TESTUSER_sensor", resp.Event.Endpoint)
	}

	p := findProperty(t, resp, NamespaceTemperature)
	if p.Name != "temperature" {
		t.Errorf("property name = %s, want temperature", p.Name)
	}
	value, ok := p.Value.(map[string]any)
	if !ok {
		t.Fatalf("value has type %T, want map", p.Value)
	}
	if value["value"] != "21.6" {
		t.Errorf("value = %v, want \"21.6\"", value["value"])
	}
	if value["scale"] != "CELSIUS" {
		t.Errorf("scale = %v, want CELSIUS", value["scale"])
	}
}

func TestReportState_TimeOfSampleFromShadow(t *testing.T) {
	doc := temperatureDoc(t, 20, 120)
	resp := ReportState(doc, "TESTUSER_sensor", requestHeader(NamespaceAlexa, NameReportState), testNow)

	p := findProperty(t, resp, NamespaceTemperature)
	want := time.Unix(testNow-120, 0).UTC().Format(isoTimeFormat)
	if p.TimeOfSample != want {
		t.Errorf("timeOfSample = %s, want %s", p.TimeOfSample, want)
	}
	if p.UncertaintyInMilliseconds != uncertaintyMillis {
		t.Errorf("uncertainty = %d, want %d", p.UncertaintyInMilliseconds, uncertaintyMillis)
	}
}

func TestReportState_Color(t *testing.T) {
	doc := colorDoc(t, 60)
	resp := ReportState(doc, "TESTUSER_strip", requestHeader(NamespaceAlexa, NameReportState), testNow)

	p := findProperty(t, resp, NamespaceColor)
	if p.Name != "color" {
		t.Errorf("property name = %s, want color", p.Name)
	}
	value, ok := p.Value.(map[string]any)
	if !ok {
		t.Fatalf("value has type %T, want map", p.Value)
	}
	if value["hue"] != "120.1" {
		t.Errorf("hue = %v, want \"120.1\"", value["hue"])
	}
	if value["saturation"] != "0.5679" {
		t.Errorf("saturation = %v, want \"0.5679\"", value["saturation"])
	}
	if value["brightness"] != "0.2500" {
		t.Errorf("brightness = %v, want \"0.2500\"", value["brightness"])
	}
}

func TestReportState_PowerRawValue(t *testing.T) {
	doc := powerDoc(t, 60)
	resp := ReportState(doc, "TESTUSER_lamp", requestHeader(NamespaceAlexa, NameReportState), testNow)

	p := findProperty(t, resp, NamespacePower)
	if p.Name != "powerState" {
		t.Errorf("property name = %s, want powerState", p.Name)
	}
	if p.Value != "ON" {
		t.Errorf("value = %v, want ON", p.Value)
	}
}

func TestReportState_StaleDeviceReportsNothing(t *testing.T) {
	doc := powerDoc(t, StaleAfterSeconds+100)
	resp := ReportState(doc, "TESTUSER_lamp", requestHeader(NamespaceAlexa, NameReportState), testNow)

	if resp.Context == nil {
		t.Fatal("response has no context")
	}
	if len(resp.Context.Properties) != 0 {
		t.Errorf("got %d properties, want 0", len(resp.Context.Properties))
	}
}
