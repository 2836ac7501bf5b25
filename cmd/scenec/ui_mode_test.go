package main

import "testing"

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Fatal("expected error for an unknown mode")
	}
}

func TestShouldUseTUIExplicit(t *testing.T) {
	if !shouldUseTUI(uiModeOn, 1, "json") {
		t.Fatal("on must force the view")
	}
	if shouldUseTUI(uiModeOff, 10, "pretty") {
		t.Fatal("off must disable the view")
	}
	if shouldUseTUI(uiModeAuto, 10, "sarif") {
		t.Fatal("auto must skip machine-readable output")
	}
	if shouldUseTUI(uiModeAuto, 1, "pretty") {
		t.Fatal("auto must skip single-file runs")
	}
}
