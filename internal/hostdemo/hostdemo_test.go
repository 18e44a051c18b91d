package hostdemo

import "testing"

func TestCatalogueAddressesAreResolved(t *testing.T) {
	for name, d := range Catalogue() {
		if d.Address == 0 {
			t.Errorf("%s: expected a non-zero native address", name)
		}
		if d.Name != name {
			t.Errorf("catalogue key %q does not match descriptor name %q", name, d.Name)
		}
	}
}

func TestPrintLnIsRawPointerParam(t *testing.T) {
	d, ok := Catalogue()["PrintLn"]
	if !ok {
		t.Fatal("expected a PrintLn entry")
	}
	if len(d.RawStringParam) != 1 || !d.RawStringParam[0] {
		t.Errorf("expected PrintLn's single string parameter to be raw-pointer, got %v", d.RawStringParam)
	}
}
