package encoding

import "testing"

func TestSwapDirectionRoundTrip(t *testing.T) {
	m := NewDefaultManager("car,foot")
	flags := m.DefaultFlags(false) | (1 << 5) // forward-only + an access-vehicle bit

	swapped := m.SwapDirection(flags)
	if swapped&ForwardBit != 0 {
		t.Error("forward bit should have cleared after swap")
	}
	if swapped&BackwardBit == 0 {
		t.Error("backward bit should have been set after swap")
	}
	if swapped&(1<<5) == 0 {
		t.Error("unrelated bits must survive a direction swap")
	}

	back := m.SwapDirection(swapped)
	if back != flags {
		t.Errorf("SwapDirection is not its own inverse: got %b, want %b", back, flags)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := NewDefaultManager("car,foot")
	b := NewDefaultManager("car,foot")
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint must be stable for identical encoder lists")
	}
	c := NewDefaultManager("car,bike")
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("fingerprint must differ for different encoder lists")
	}
}

func TestDefaultFlagsBothDirections(t *testing.T) {
	m := NewDefaultManager("car")
	both := m.DefaultFlags(true)
	if both&ForwardBit == 0 || both&BackwardBit == 0 {
		t.Error("both-directions default must set forward and backward bits")
	}
}
