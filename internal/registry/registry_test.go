package registry

import (
	"errors"
	"testing"

	"algorand-defi-lab/internal/domain"
)

func TestNew_RejectsDuplicateAppID(t *testing.T) {
	// The legacy data sources assigned app 148607000 to three different
	// protocol names. That must fail construction, not load silently.
	_, err := New([]domain.Protocol{
		{Key: "pact", Name: "Pact", AppID: 148607000},
		{Key: "vestige", Name: "Vestige", AppID: 148607000},
	})
	if !errors.Is(err, ErrDuplicateAppID) {
		t.Errorf("expected ErrDuplicateAppID, got %v", err)
	}
}

func TestNew_RejectsDuplicateKey(t *testing.T) {
	_, err := New([]domain.Protocol{
		{Key: "tinyman_v2", AppID: 1002541853},
		{Key: "tinyman_v2", AppID: 465814065},
	})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestNew_RejectsZeroAppID(t *testing.T) {
	_, err := New([]domain.Protocol{{Key: "broken", AppID: 0}})
	if err == nil {
		t.Error("expected error for zero app ID")
	}
}

func TestGet_Unknown(t *testing.T) {
	r := Default()
	_, err := r.Get("pact_finance")
	if !errors.Is(err, ErrUnknownProtocol) {
		t.Errorf("expected ErrUnknownProtocol, got %v", err)
	}
}

func TestList_StableOrder(t *testing.T) {
	r, err := New([]domain.Protocol{
		{Key: "b", AppID: 2},
		{Key: "a", AppID: 1},
		{Key: "c", AppID: 3},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	got := r.List()
	want := []string{"b", "a", "c"}
	for i, p := range got {
		if p.Key != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], p.Key)
		}
	}
}

func TestFilter_UnknownKeyIsError(t *testing.T) {
	r := Default()
	if _, err := r.Filter([]string{"tinyman_v2", "nonexistent"}); !errors.Is(err, ErrUnknownProtocol) {
		t.Errorf("expected ErrUnknownProtocol, got %v", err)
	}

	got, err := r.Filter([]string{"folks_finance"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 || got[0].Key != "folks_finance" {
		t.Errorf("unexpected filter result: %+v", got)
	}
}

func TestDefault_Valid(t *testing.T) {
	r := Default()
	if len(r.List()) == 0 {
		t.Fatal("default registry is empty")
	}

	ids := r.AppIDs()
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("app IDs not strictly ascending: %v", ids)
		}
	}
}
