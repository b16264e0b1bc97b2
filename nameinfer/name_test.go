package nameinfer

import "testing"

func TestBetweenNames(t *testing.T) {
	if got := BetweenLowerName("createdAt"); got.Text != "createdAtLower" {
		t.Fatalf("got %q, want createdAtLower", got.Text)
	}
	if got := BetweenUpperName("createdAt"); got.Text != "createdAtUpper" {
		t.Fatalf("got %q, want createdAtUpper", got.Text)
	}
}

func TestInNamePluralization(t *testing.T) {
	cases := map[string]string{
		"id":     "ids",
		"status": "statuses",
		"box":    "boxes",
		"city":   "cities",
		"day":    "days",
	}
	for in, want := range cases {
		if got := InName(in).Text; got != want {
			t.Errorf("InName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPredicatesAlwaysFalse(t *testing.T) {
	n := Some("x")
	if n.IsSome() || n.IsNeeds() {
		t.Fatalf("IsSome/IsNeeds must always be false")
	}
	if None.IsSome() || Needed(0).IsNeeds() {
		t.Fatalf("IsSome/IsNeeds must always be false regardless of Kind")
	}
}

func TestFromAliasPrefersExplicit(t *testing.T) {
	n, ok := FromAlias("total")
	if !ok || n.Text != "total" {
		t.Fatalf("expected explicit alias to win")
	}
	if _, ok := FromAlias(""); ok {
		t.Fatalf("empty alias should not count as explicit")
	}
}
