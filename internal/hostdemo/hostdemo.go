// Package hostdemo implements a small catalogue of demo host functions the
// CLI can expose to a running script via an --imports manifest: a couple of
// arithmetic helpers, a PrintLn that writes a script string to stdout, and a
// string-length helper. These stand in for "whatever a real embedding host
// would link in", giving the CLI's run/compile commands something concrete
// to wire through myscript.ImportedSymbol.Address.
//
// Each function is implemented in C for the same reason
// internal/runtime's intrinsics are: the JIT's symbol resolver needs a
// real, stable native address, which a plain Go func value does not
// portably provide across the cgo boundary. The ms_handle/ms_string_body
// layout mirrors internal/runtime's exactly, since that is the string
// handle representation the compiler emits pointers to.
package hostdemo

/*
#include <stdint.h>
#include <stdio.h>

typedef struct {
	int32_t  size;
	uint16_t data[];
} ms_string_body;

typedef struct {
	int32_t        refcount;
	ms_string_body *body;
} ms_handle;

static int32_t ms_demo_addint(int32_t a, int32_t b) { return a + b; }
static int32_t ms_demo_subint(int32_t a, int32_t b) { return a - b; }

static int32_t ms_demo_strlen(ms_handle *h) {
	if (!h || !h->body) {
		return 0;
	}
	return h->body->size;
}

// ms_demo_println writes a script string's UTF-16 code units to stdout as
// Latin-1, which is enough for the CLI's own demo scripts; non-Latin-1
// code points print as '?'. Its parameter is a raw-pointer parameter, so
// it receives the null-terminated code-unit buffer strgetptr projects,
// not the handle.
static void ms_demo_println(const uint16_t *s) {
	if (s) {
		for (; *s; s++) {
			putchar(*s < 256 ? (int)*s : '?');
		}
	}
	putchar('\n');
}

static void *ms_demo_addr_addint()  { return (void *)ms_demo_addint; }
static void *ms_demo_addr_subint()  { return (void *)ms_demo_subint; }
static void *ms_demo_addr_strlen()  { return (void *)ms_demo_strlen; }
static void *ms_demo_addr_println() { return (void *)ms_demo_println; }
*/
import "C"

import "github.com/cwbudde/myscript/internal/lang"

// Descriptor is the catalogue entry for one demo host function: its native
// address plus everything CompileWithImports needs to declare it.
type Descriptor struct {
	Name           string
	ReturnType     lang.Type
	ParamTypes     []lang.Type
	RawStringParam []bool
	Address        uintptr
}

// Catalogue lists every demo host function by name, the key a YAML
// --imports manifest selects by.
func Catalogue() map[string]Descriptor {
	return map[string]Descriptor{
		"AddInt": {
			Name:       "AddInt",
			ReturnType: lang.Int,
			ParamTypes: []lang.Type{lang.Int, lang.Int},
			Address:    uintptr(C.ms_demo_addr_addint()),
		},
		"SubInt": {
			Name:       "SubInt",
			ReturnType: lang.Int,
			ParamTypes: []lang.Type{lang.Int, lang.Int},
			Address:    uintptr(C.ms_demo_addr_subint()),
		},
		"StrLen": {
			Name:       "StrLen",
			ReturnType: lang.Int,
			ParamTypes: []lang.Type{lang.String},
			Address:    uintptr(C.ms_demo_addr_strlen()),
		},
		"PrintLn": {
			Name:           "PrintLn",
			ReturnType:     lang.Void,
			ParamTypes:     []lang.Type{lang.String},
			RawStringParam: []bool{true},
			Address:        uintptr(C.ms_demo_addr_println()),
		},
	}
}
