package addr

import "testing"

func TestClassify_IPv4(t *testing.T) {
	a := Classify("203.0.113.7")

	if a.Kind != V4 {
		t.Fatalf("expected V4, got %s", a.Kind)
	}
	octets, ok := a.Octets()
	if !ok {
		t.Fatal("expected octets for V4 address")
	}
	if octets != [4]byte{203, 0, 113, 7} {
		t.Errorf("unexpected octets %v", octets)
	}
}

func TestClassify_IPv6ExpandsCompression(t *testing.T) {
	a := Classify("2001:db8::1")

	if a.Kind != V6 {
		t.Fatalf("expected V6, got %s", a.Kind)
	}
	nibbles, ok := a.Nibbles()
	if !ok {
		t.Fatal("expected nibbles for V6 address")
	}
	if nibbles != "20010db8000000000000000000000001" {
		t.Errorf("unexpected nibbles %q", nibbles)
	}
}

func TestClassify_IPv6Loopback(t *testing.T) {
	nibbles, ok := Classify("::1").Nibbles()
	if !ok {
		t.Fatal("expected ::1 to classify as V6")
	}
	if len(nibbles) != 32 {
		t.Fatalf("expected 32 nibbles, got %d", len(nibbles))
	}
	if nibbles != "00000000000000000000000000000001" {
		t.Errorf("unexpected nibbles %q", nibbles)
	}
}

func TestClassify_IPv6UppercaseIsNormalized(t *testing.T) {
	nibbles, _ := Classify("2001:DB8:0:0:0:0:0:ABCD").Nibbles()

	if nibbles != "20010db800000000000000000000abcd" {
		t.Errorf("unexpected nibbles %q", nibbles)
	}
}

func TestClassify_IPv4MappedIsV4(t *testing.T) {
	a := Classify("::ffff:192.0.2.1")

	if a.Kind != V4 {
		t.Fatalf("expected V4, got %s", a.Kind)
	}
	if a.String() != "192.0.2.1" {
		t.Errorf("expected unmapped address, got %q", a.String())
	}
}

func TestClassify_ZoneKept(t *testing.T) {
	a := Classify("fe80::1%eth0")

	if a.Kind != V6 {
		t.Fatalf("expected V6, got %s", a.Kind)
	}
	if a.Zone != "eth0" {
		t.Errorf("expected zone eth0, got %q", a.Zone)
	}
	if a.String() != "fe80::1%eth0" {
		t.Errorf("unexpected string %q", a.String())
	}
}

func TestClassify_Malformed(t *testing.T) {
	tests := []string{
		"",
		"not-an-ip",
		"1.2.3",
		"1.2.3.4.5",
		"256.1.1.1",
		"1.2.3.-1",
		"01.2.3.4",
		" 1.2.3.4",
		"1.2.3.4 ",
		"1.2.3.4:80",
		"2001:db8::g",
		"2001:db8:::1",
		"1:2:3:4:5:6:7:8:9",
		"12345::1",
		"fe80::1%",
		"[::1]",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			a := Classify(input)
			if a.Kind != Invalid {
				t.Errorf("expected Invalid for %q, got %s", input, a.Kind)
			}
			if a.Valid() {
				t.Errorf("expected Valid() false for %q", input)
			}
			if a.String() != "" {
				t.Errorf("expected empty string for %q, got %q", input, a.String())
			}
		})
	}
}

func TestAddress_AccessorsRejectOtherFamily(t *testing.T) {
	if _, ok := Classify("::1").Octets(); ok {
		t.Error("Octets should fail for V6")
	}
	if _, ok := Classify("1.2.3.4").Nibbles(); ok {
		t.Error("Nibbles should fail for V4")
	}
}
