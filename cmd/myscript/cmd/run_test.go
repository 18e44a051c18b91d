package cmd

import "testing"

func TestModuleNameFromPath(t *testing.T) {
	cases := map[string]string{
		"script.ms":          "script",
		"/a/b/script.ms":     "script",
		`C:\scripts\main.ms`: "main",
		"noext":              "noext",
	}
	for in, want := range cases {
		if got := moduleNameFromPath(in); got != want {
			t.Errorf("moduleNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSourceLine(t *testing.T) {
	src := "first\nsecond\nthird"
	if got := sourceLine(src, 2); got != "second" {
		t.Errorf("sourceLine line 2 = %q, want %q", got, "second")
	}
	if got := sourceLine(src, 99); got != "" {
		t.Errorf("sourceLine out of range = %q, want empty", got)
	}
}
