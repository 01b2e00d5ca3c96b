package shared

import (
	"errors"
	"strings"
	"testing"
)

func TestConnectionError_Unwrap(t *testing.T) {
	inner := errors.New("handshake rejected")
	err := &ConnectionError{Endpoint: "wss://example.com/realtime", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("ConnectionError should unwrap to inner error")
	}
	if !strings.Contains(err.Error(), "wss://example.com/realtime") {
		t.Errorf("error message should name the endpoint, got %q", err.Error())
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	inner := errors.New("broken pipe")
	err := &TransportError{Op: "write", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("TransportError should unwrap to inner error")
	}
	if !strings.Contains(err.Error(), "write") {
		t.Errorf("error message should name the op, got %q", err.Error())
	}
}

func TestNewID(t *testing.T) {
	id := NewID("evt_")
	if !strings.HasPrefix(id, "evt_") {
		t.Errorf("expected evt_ prefix, got %s", id)
	}
	if len(id) != len("evt_")+32 {
		t.Errorf("unexpected id length %d", len(id))
	}
	if id == NewID("evt_") {
		t.Error("ids should be unique")
	}
}
