package mmio

import "testing"

func TestLoadStore(t *testing.T) {
	buf := []uint16{0xdead, 0xbeef, 0xf00d}

	StoreUint16(&buf[1], 0x0741)

	specs := []uint16{0xdead, 0x0741, 0xf00d}
	for specIndex, exp := range specs {
		if got := LoadUint16(&buf[specIndex]); got != exp {
			t.Errorf("[spec %d] expected to load 0x%x; got 0x%x", specIndex, exp, got)
		}
	}
}
