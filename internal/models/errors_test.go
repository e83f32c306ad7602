package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&ValidationError{Field: "title", Reason: "required"}, "invalid title: required"},
		{&NotFoundError{Entity: "expense", ID: 42}, "expense 42 not found"},
		{&AuthorizationError{Caller: "ana", WeddingID: 7}, `caller "ana" does not own wedding 7`},
	}

	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("Error() = %q, want %q", got, c.want)
		}
	}
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("disk full")
	err := &PersistenceError{Op: "create task", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("PersistenceError should unwrap to its inner error")
	}
	if got, want := err.Error(), "create task: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusDone.Valid() {
		t.Error("done should be a valid task status")
	}
	if TaskStatus("archived").Valid() {
		t.Error("archived should not be a valid task status")
	}
	if !PaymentDepositPaid.Valid() {
		t.Error("deposit_paid should be a valid payment status")
	}
	if PaymentStatus("refunded").Valid() {
		t.Error("refunded should not be a valid payment status")
	}
	if !PriorityCritical.Valid() {
		t.Error("critical should be a valid priority")
	}
	if !TaskVenueLinked.Valid() {
		t.Error("venue_linked should be a valid task kind")
	}
}
