package shadow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dasbridge/bridge/pkg/identity"
)

type fakeBroker struct {
	mu       sync.Mutex
	payloads map[string][]byte
	fail     map[string]error
	calls    int
}

func (f *fakeBroker) GetShadow(ctx context.Context, deviceName string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err, ok := f.fail[deviceName]; ok {
		return nil, err
	}
	payload, ok := f.payloads[deviceName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, deviceName)
	}
	return payload, nil
}

func (f *fakeBroker) UpdateDesiredState(ctx context.Context, deviceName string, delta any) error {
	return nil
}

func (f *fakeBroker) IsConnected() bool { return true }
func (f *fakeBroker) Close()            {}

type fakeNamer struct {
	names []string
	err   error
}

func (f *fakeNamer) ThingNames(ctx context.Context, userID, nameFilter string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if nameFilter == "" {
		return f.names, nil
	}
	for _, n := range f.names {
		if n == nameFilter {
			return []string{n}, nil
		}
	}
	return nil, nil
}

func shadowPayload(powerState string) []byte {
	return []byte(fmt.Sprintf(`{
		"state": {"reported": {"Alexa.PowerController": {"3": {"powerState": %q}}}},
		"metadata": {"reported": {"Alexa.PowerController": {"3": {"powerState": {"timestamp": 1700000000}}}}}
	}`, powerState))
}

func testUser() *identity.UserProfile {
	return &identity.UserProfile{UserID: "amzn1.account.TESTUSER", ShortID: "TESTUSER"}
}

func TestFetchShadow(t *testing.T) {
	broker := &fakeBroker{payloads: map[string][]byte{
		"TESTUSER_lamp": shadowPayload("ON"),
	}}
	r := NewReader(broker, &fakeNamer{})

	doc, err := r.FetchShadow(context.Background(), "TESTUSER_lamp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok := doc.ReportedValue("Alexa.PowerController", "3", "powerState")
	if !ok || v != "ON" {
		t.Errorf("powerState = %v (ok=%v), want ON", v, ok)
	}
}

func TestFetchShadow_DecodeFailure(t *testing.T) {
	broker := &fakeBroker{payloads: map[string][]byte{
		"TESTUSER_lamp": []byte("garbage"),
	}}
	r := NewReader(broker, &fakeNamer{})

	_, err := r.FetchShadow(context.Background(), "TESTUSER_lamp")
	if !errors.Is(err, ErrDecoding) {
		t.Errorf("expected ErrDecoding, got %v", err)
	}
}

func TestFetchShadowsForUser_All(t *testing.T) {
	broker := &fakeBroker{payloads: map[string][]byte{
		"TESTUSER_lamp":   shadowPayload("ON"),
		"TESTUSER_heater": shadowPayload("OFF"),
	}}
	namer := &fakeNamer{names: []string{"TESTUSER_lamp", "TESTUSER_heater"}}
	r := NewReader(broker, namer)

	shadows, err := r.FetchShadowsForUser(context.Background(), testUser(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shadows) != 2 {
		t.Fatalf("got %d shadows, want 2", len(shadows))
	}
	for _, name := range namer.names {
		if shadows[name] == nil {
			t.Errorf("missing shadow for %s", name)
		}
	}
}

func TestFetchShadowsForUser_Filter(t *testing.T) {
	broker := &fakeBroker{payloads: map[string][]byte{
		"TESTUSER_lamp":   shadowPayload("ON"),
		"TESTUSER_heater": shadowPayload("OFF"),
	}}
	namer := &fakeNamer{names: []string{"TESTUSER_lamp", "TESTUSER_heater"}}
	r := NewReader(broker, namer)

	shadows, err := r.FetchShadowsForUser(context.Background(), testUser(), "TESTUSER_heater")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shadows) != 1 {
		t.Fatalf("got %d shadows, want 1", len(shadows))
	}
	if shadows["TESTUSER_heater"] == nil {
		t.Error("missing filtered shadow")
	}
}

func TestFetchShadowsForUser_AllOrNothing(t *testing.T) {
	broker := &fakeBroker{
		payloads: map[string][]byte{
			"TESTUSER_lamp": shadowPayload("ON"),
		},
		fail: map[string]error{
			"TESTUSER_heater": fmt.Errorf("%w: heater offline", ErrBroker),
		},
	}
	namer := &fakeNamer{names: []string{"TESTUSER_lamp", "TESTUSER_heater"}}
	r := NewReader(broker, namer)

	shadows, err := r.FetchShadowsForUser(context.Background(), testUser(), "")
	if !errors.Is(err, ErrBroker) {
		t.Fatalf("expected ErrBroker, got %v", err)
	}
	if shadows != nil {
		t.Error("expected no partial result on failure")
	}
}

func TestFetchShadowsForUser_RegistryFailure(t *testing.T) {
	registryErr := errors.New("registry down")
	r := NewReader(&fakeBroker{}, &fakeNamer{err: registryErr})

	_, err := r.FetchShadowsForUser(context.Background(), testUser(), "")
	if !errors.Is(err, registryErr) {
		t.Fatalf("expected registry error, got %v", err)
	}
	if r.broker.(*fakeBroker).calls != 0 {
		t.Error("expected no broker calls when the registry lookup fails")
	}
}

func TestNullBroker(t *testing.T) {
	b := NewNullBroker()
	if b.IsConnected() {
		t.Error("null broker must report disconnected")
	}
	if _, err := b.GetShadow(context.Background(), "x"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if err := b.UpdateDesiredState(context.Background(), "x", nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}
