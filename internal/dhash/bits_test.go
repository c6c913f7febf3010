package dhash

import "testing"

func bitsFrom(s string) Bits {
	b := NewBits(len(s))
	for _, c := range s {
		b.Push(c == '1')
	}
	return b
}

func TestBitsHex_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		bits string
		want string
	}{
		{"empty", "", ""},
		{"single zero", "0", "0"},
		{"single one", "1", "8"},
		{"one nibble", "1010", "a"},
		{"two nibbles", "11111110", "fe"},
		{"nine bits", "110110110", "db0"},
		{"leftover one bit set", "00001", "08"},
		{"leftover three bits", "1111111", "fe"},
		{"crosses word boundary", "1111111111111111111111111111111111111111111111111111111111111111" + "0001", "ffffffffffffffff1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := bitsFrom(tt.bits)
			if b.Len() != len(tt.bits) {
				t.Fatalf("len mismatch: got %d want %d", b.Len(), len(tt.bits))
			}
			if got := b.Hex(); got != tt.want {
				t.Fatalf("hex mismatch: got %q want %q", got, tt.want)
			}
			if got := b.String(); got != tt.bits {
				t.Fatalf("string mismatch: got %q want %q", got, tt.bits)
			}
			if len(b.Hex()) != HexLen(b.Len()) {
				t.Fatalf("hex length %d does not match HexLen(%d)=%d", len(b.Hex()), b.Len(), HexLen(b.Len()))
			}
		})
	}
}

func TestBitsEqual(t *testing.T) {
	a := bitsFrom("101100111")
	b := bitsFrom("101100111")
	c := bitsFrom("101100110")
	d := bitsFrom("10110011")

	if !a.Equal(b) {
		t.Fatalf("expected equal bits")
	}
	if a.Equal(c) {
		t.Fatalf("expected different bits to be unequal")
	}
	if a.Equal(d) {
		t.Fatalf("expected different lengths to be unequal")
	}
}

func TestBitsHexInjective(t *testing.T) {
	// every 6-bit sequence must map to a distinct digest
	seen := map[string]string{}
	for v := 0; v < 1<<6; v++ {
		b := NewBits(6)
		for i := 5; i >= 0; i-- {
			b.Push(v&(1<<i) != 0)
		}
		hx := b.Hex()
		if prev, ok := seen[hx]; ok {
			t.Fatalf("digest %q produced by %s and %s", hx, prev, b.String())
		}
		seen[hx] = b.String()
	}
}

func TestBitsAtOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	b := bitsFrom("1")
	b.At(1)
}
