package domain

import "testing"

func TestSessionSelectResetsTranscript(t *testing.T) {
	s := &Session{ID: "sid", Transcript: []Turn{{Role: RoleUser, Text: "hello"}}}

	s.Select(4, "Jane Doe")

	if !s.HasCustomer() {
		t.Fatal("expected customer to be selected")
	}
	if s.Customer.Row != 4 || s.Customer.Name != "Jane Doe" {
		t.Errorf("unexpected selection: %+v", s.Customer)
	}
	if s.Transcript == nil || len(s.Transcript) != 0 {
		t.Errorf("expected empty non-nil transcript, got %v", s.Transcript)
	}
}

func TestNilSessionHasNoCustomer(t *testing.T) {
	var s *Session
	if s.HasCustomer() {
		t.Error("nil session must not report a customer")
	}
}
