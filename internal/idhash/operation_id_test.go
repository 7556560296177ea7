package idhash

import "testing"

func TestComputeOperationID_Deterministic(t *testing.T) {
	a := ComputeOperationID("SENDER", "payment", 0, "RECV", 1000, 1700000000000)
	b := ComputeOperationID("SENDER", "payment", 0, "RECV", 1000, 1700000000000)

	if a != b {
		t.Errorf("expected identical IDs, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestComputeOperationID_DistinctInputs(t *testing.T) {
	base := ComputeOperationID("SENDER", "payment", 0, "RECV", 1000, 1700000000000)

	variants := []string{
		ComputeOperationID("OTHER", "payment", 0, "RECV", 1000, 1700000000000),
		ComputeOperationID("SENDER", "app_call", 0, "RECV", 1000, 1700000000000),
		ComputeOperationID("SENDER", "payment", 465814065, "RECV", 1000, 1700000000000),
		ComputeOperationID("SENDER", "payment", 0, "RECV", 1001, 1700000000000),
		ComputeOperationID("SENDER", "payment", 0, "RECV", 1000, 1700000000001),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base ID", i)
		}
	}
}

func TestComputeProbeID_Deterministic(t *testing.T) {
	a := ComputeProbeID(465814065, "update_user", "update", 1700000000000)
	b := ComputeProbeID(465814065, "update_user", "update", 1700000000000)

	if a != b {
		t.Errorf("expected identical IDs, got %s and %s", a, b)
	}

	c := ComputeProbeID(465814065, "update_account", "update", 1700000000000)
	if c == a {
		t.Error("different arg sets must not collide")
	}
}
