// Package testkit provides a reusable conformance suite for
// ContentAddressableStorage implementations.
package testkit

import (
	"bytes"
	"testing"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
)

// NewCAS constructs a fresh, empty store for a test.
// The returned store MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.ContentAddressableStorage

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("AddFetchRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := content.Raw(`{"kind":"conformance","n":1}`)

		if err := cas.Add(want); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		got, err := cas.Fetch(want.Address())
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if !bytes.Equal(got, []byte(want)) {
			t.Fatalf("Fetch bytes mismatch: got %q want %q", got, want)
		}

		gotAddr, err := content.AddressOf(got)
		if err != nil {
			t.Fatalf("AddressOf(got) failed: %v", err)
		}
		if gotAddr != want.Address() {
			t.Fatalf("Fetch returned bytes not matching requested address")
		}
	})

	t.Run("AddIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		c := content.Raw(`{"kind":"conformance","n":2}`)

		if err := cas.Add(c); err != nil {
			t.Fatalf("Add(1) failed: %v", err)
		}
		if err := cas.Add(c); err != nil {
			t.Fatalf("Add(2) failed: %v", err)
		}
		got, err := cas.Fetch(c.Address())
		if err != nil {
			t.Fatalf("Fetch after double Add failed: %v", err)
		}
		if !bytes.Equal(got, []byte(c)) {
			t.Fatalf("double Add changed stored bytes")
		}
	})

	t.Run("ContainsAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		c := content.Raw(`{"kind":"conformance","n":3}`)

		if cas.Contains(c.Address()) {
			t.Fatalf("Contains returned true for missing address")
		}
		if _, err := cas.Fetch(c.Address()); !storage.IsNotFound(err) {
			t.Fatalf("Fetch missing: got err=%v want ErrNotFound", err)
		}

		if err := cas.Add(c); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if !cas.Contains(c.Address()) {
			t.Fatalf("Contains returned false after Add")
		}
	})

	t.Run("TypedFetchRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		e := content.NewEntry("conformance", []byte(`{"n":4}`))

		if err := cas.Add(e); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		got, err := storage.FetchAs[content.Entry](cas, e.Address())
		if err != nil {
			t.Fatalf("FetchAs failed: %v", err)
		}
		if got == nil {
			t.Fatalf("FetchAs returned nil for present address")
		}
		if got.Address() != e.Address() {
			t.Fatalf("typed round trip changed address")
		}

		missing, err := storage.FetchAs[content.Entry](cas, content.Raw("absent").Address())
		if err != nil {
			t.Fatalf("FetchAs missing: unexpected error %v", err)
		}
		if missing != nil {
			t.Fatalf("FetchAs missing: expected nil value")
		}
	})

	t.Run("RejectUndefinedAddress", func(t *testing.T) {
		cas := newCAS(t)
		var undef content.Address
		if cas.Contains(undef) {
			t.Fatalf("Contains should be false for undefined address")
		}
		if _, err := cas.Fetch(undef); err == nil {
			t.Fatalf("Fetch should fail for undefined address")
		}
	})
}
