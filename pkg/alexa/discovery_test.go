package alexa

import (
	"errors"
	"testing"

	"github.com/dasbridge/bridge/pkg/shadow"
	"github.com/dasbridge/bridge/pkg/thing"
)

func TestDiscover_SingleDevice(t *testing.T) {
	shadows := map[string]*shadow.Document{
		"TESTUSER_lamp": powerDoc(t, 60),
	}

	endpoints, err := Discover(shadows, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(endpoints) != 1 {
		t.Fatalf("got %d endpoints, want 1", len(endpoints))
	}

	e := endpoints[0]
	if e.EndpointID != "TESTUSER_lamp" {
		t.Errorf("endpointId = %s, want TESTUSER_lamp", e.EndpointID)
	}
	if e.FriendlyName != "lamp" {
		t.Errorf("friendlyName = %s, want lamp", e.FriendlyName)
	}
	if e.Description != "lamp Device" {
		t.Errorf("description = %s, want 'lamp Device'", e.Description)
	}
	if e.ManufacturerName != ManufacturerName {
		t.Errorf("manufacturerName = %s, want %s", e.ManufacturerName, ManufacturerName)
	}
	if len(e.Capabilities) != 1 {
		t.Errorf("got %d capabilities, want 1", len(e.Capabilities))
	}
	// Power contributes no display category
	if len(e.DisplayCategories) != 0 {
		t.Errorf("displayCategories = %v, want none", e.DisplayCategories)
	}
}

func TestDiscover_ColorEndpoint(t *testing.T) {
	shadows := map[string]*shadow.Document{
		"TESTUSER_strip": colorDoc(t, 60),
	}

	endpoints, err := Discover(shadows, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(endpoints) != 1 {
		t.Fatalf("got %d endpoints, want 1", len(endpoints))
	}

	e := endpoints[0]
	// Color advertises its own interface plus the bare Alexa marker
	if len(e.Capabilities) != 2 {
		t.Fatalf("got %d capabilities, want 2", len(e.Capabilities))
	}
	if e.Capabilities[0].Interface != NamespaceColor {
		t.Errorf("capabilities[0] = %s, want %s", e.Capabilities[0].Interface, NamespaceColor)
	}
	if e.Capabilities[1].Interface != NamespaceAlexa {
		t.Errorf("capabilities[1] = %s, want %s", e.Capabilities[1].Interface, NamespaceAlexa)
	}
	if len(e.DisplayCategories) != 1 || e.DisplayCategories[0] != "LIGHT" {
		t.Errorf("displayCategories = %v, want [LIGHT]", e.DisplayCategories)
	}
}

func TestDiscover_DropsDeadDevice(t *testing.T) {
	shadows := map[string]*shadow.Document{
		"TESTUSER_alive": powerDoc(t, 60),
		"TESTUSER_dead":  powerDoc(t, StaleAfterSeconds+100),
	}

	endpoints, err := Discover(shadows, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(endpoints) != 1 {
		t.Fatalf("got %d endpoints, want 1", len(endpoints))
	}
	if endpoints[0].EndpointID != "TESTUSER_alive" {
		t.Errorf("endpointId = %s, want TESTUSER_alive", endpoints[0].EndpointID)
	}
}

func TestDiscover_DeterministicOrder(t *testing.T) {
	shadows := map[string]*shadow.Document{
		"TESTUSER_c": powerDoc(t, 60),
		"TESTUSER_a": powerDoc(t, 60),
		"TESTUSER_b": powerDoc(t, 60),
	}

	endpoints, err := Discover(shadows, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"TESTUSER_a", "TESTUSER_b", "TESTUSER_c"}
	for i, name := range want {
		if endpoints[i].EndpointID != name {
			t.Errorf("endpoints[%d] = %s, want %s", i, endpoints[i].EndpointID, name)
		}
	}
}

func TestDiscover_BadThingName(t *testing.T) {
	shadows := map[string]*shadow.Document{
		"badname": powerDoc(t, 60),
	}

	_, err := Discover(shadows, testNow)
	if !errors.Is(err, thing.ErrBadName) {
		t.Errorf("expected ErrBadName, got %v", err)
	}
}

func TestDiscover_Empty(t *testing.T) {
	endpoints, err := Discover(map[string]*shadow.Document{}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(endpoints) != 0 {
		t.Errorf("got %d endpoints, want 0", len(endpoints))
	}
}
