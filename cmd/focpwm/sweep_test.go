package main

import "testing"

func TestParseAxis(t *testing.T) {
	name, values, err := parseAxis("iq=1:3:3")
	if err != nil {
		t.Fatal(err)
	}
	if name != "iq" || len(values) != 3 || values[0] != 1 || values[2] != 3 {
		t.Errorf("got %s %v", name, values)
	}

	for _, bad := range []string{"iq", "iq=1:2", "iq=a:2:3", "iq=1:2:0"} {
		if _, _, err := parseAxis(bad); err == nil {
			t.Errorf("parseAxis(%q) should fail", bad)
		}
	}
}

func TestParseFloats(t *testing.T) {
	vals, err := parseFloats([]string{"0.5", "-1", "2e3"})
	if err != nil {
		t.Fatal(err)
	}
	if vals[0] != 0.5 || vals[1] != -1 || vals[2] != 2000 {
		t.Errorf("got %v", vals)
	}
	if _, err := parseFloats([]string{"x"}); err == nil {
		t.Error("expected error")
	}
}
