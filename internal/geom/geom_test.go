package geom

import "testing"

func TestDirectionRotation(t *testing.T) {
	if North.Clockwise() != East {
		t.Errorf("North.Clockwise() = %v, want East", North.Clockwise())
	}
	if North.Anticlockwise() != West {
		t.Errorf("North.Anticlockwise() = %v, want West", North.Anticlockwise())
	}
	if North.Opposite() != South {
		t.Errorf("North.Opposite() = %v, want South", North.Opposite())
	}
	if West.Clockwise() != North {
		t.Errorf("West.Clockwise() = %v, want North", West.Clockwise())
	}
}

func TestDisplaceCoord(t *testing.T) {
	mc := MapCoord{X: 5, Y: 5}
	got := DisplaceCoord(mc, East)
	want := MapCoord{X: 6, Y: 5}
	if got != want {
		t.Errorf("DisplaceCoord east = %v, want %v", got, want)
	}
	got = DisplaceCoord(mc, North)
	want = MapCoord{X: 5, Y: 4}
	if got != want {
		t.Errorf("DisplaceCoord north = %v, want %v", got, want)
	}
}

func TestAccessMin(t *testing.T) {
	if Min(AccessClear, AccessBlocked) != AccessBlocked {
		t.Errorf("Min(clear, blocked) should be blocked")
	}
	if Min(AccessClear, AccessApproach) != AccessApproach {
		t.Errorf("Min(clear, approach) should be approach")
	}
}

func TestNullCoord(t *testing.T) {
	if !NullCoord.IsNull() {
		t.Errorf("NullCoord.IsNull() should be true")
	}
	if (MapCoord{X: 0, Y: 0}).IsNull() {
		t.Errorf("(0,0).IsNull() should be false")
	}
}
