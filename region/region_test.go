package region

import "testing"

func TestLookupLips(t *testing.T) {
	reg, err := Lookup("lips")
	if err != nil {
		t.Fatalf("Lookup(lips) failed: %v", err)
	}

	if len(reg.Outer) < 3 {
		t.Errorf("lips outer contour has %d points", len(reg.Outer))
	}
	if len(reg.Inner) < 3 {
		t.Errorf("lips inner contour has %d points", len(reg.Inner))
	}

	// Outer and inner rings must not share keypoints: the inner ring is a
	// cutout, a shared index would collapse the cavity boundary.
	seen := map[int]bool{}
	for _, idx := range reg.Outer {
		seen[idx] = true
	}
	for _, idx := range reg.Inner {
		if seen[idx] {
			t.Errorf("index %d appears in both lips contours", idx)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("mustache"); err == nil {
		t.Fatal("Lookup of unknown region must fail")
	}
}

func TestContoursWithinTopology(t *testing.T) {
	for _, name := range Names() {
		reg, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%s) failed: %v", name, err)
		}

		for _, contour := range [][]int{reg.Outer, reg.Inner} {
			for _, idx := range contour {
				if idx < 0 || idx >= TopologyKeypoints {
					t.Errorf("region %s references index %d outside [0, %d)", name, idx, TopologyKeypoints)
				}
			}
		}
	}
}

func TestMinKeypoints(t *testing.T) {
	for _, name := range Names() {
		reg, _ := Lookup(name)

		max := 0
		for _, contour := range [][]int{reg.Outer, reg.Inner} {
			for _, idx := range contour {
				if idx > max {
					max = idx
				}
			}
		}

		if reg.MinKeypoints != max+1 {
			t.Errorf("region %s MinKeypoints = %d; want %d", name, reg.MinKeypoints, max+1)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	found := false
	for _, n := range names {
		if n == "lips" {
			found = true
		}
	}
	if !found {
		t.Errorf("Names() = %v; must contain lips", names)
	}
}
