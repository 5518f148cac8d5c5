package ids

import "testing"

func TestGeneratorUniqueAndIncreasing(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]struct{}, 1000)
	prev := ""
	for i := 0; i < 1000; i++ {
		id := g.New()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s at %d", id, i)
		}
		seen[id] = struct{}{}
		if prev != "" && id <= prev {
			t.Fatalf("id %s not greater than previous %s", id, prev)
		}
		prev = id
	}
}

func TestPackageNew(t *testing.T) {
	if a, b := New(), New(); a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
}
