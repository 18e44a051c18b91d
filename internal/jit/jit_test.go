package jit

import "testing"

func TestUnqualifyStripsModulePrefix(t *testing.T) {
	cases := map[string]string{
		"hdlinc":        "hdlinc",
		"mymodule::log": "log",
		"a::b::c":       "c",
	}
	for in, want := range cases {
		if got := unqualify(in); got != want {
			t.Errorf("unqualify(%q) = %q, want %q", in, got, want)
		}
	}
}
