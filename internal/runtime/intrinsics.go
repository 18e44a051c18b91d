// Package runtime implements the seven MyScript runtime intrinsics
// (component C5): refcount primitives and string alloc/len/concat/compare/
// substring operations, plus the handle→raw-pointer projection used when a
// script passes a string to a host function expecting a raw code-unit
// pointer.
//
// These are implemented in a small embedded C translation unit rather than
// in Go. The JIT (component C7) needs a real, stable native address for
// each intrinsic to hand to the backend's symbol resolver; a Go function
// value has no such address portable across the cgo boundary, so the
// intrinsics live in C and Go only takes their addresses. This is the
// engineering trick standing in for out-of-scope "embedding
// C-style ABI" collaborator.
package runtime

/*
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
	int32_t  size;
	uint16_t data[];
} ms_string_body;

typedef struct {
	int32_t        refcount;
	ms_string_body *body;
} ms_handle;

static void ms_hdlinc(ms_handle *h) {
	if (h) {
		h->refcount++;
	}
}

static void ms_hdldec(ms_handle *h) {
	if (!h) {
		return;
	}
	if (h->refcount <= 1) {
		free(h->body);
		free(h);
	} else {
		h->refcount--;
	}
}

static int32_t ms_strlen(ms_handle *h) {
	if (!h || !h->body) {
		return 0;
	}
	return h->body->size;
}

static ms_handle *ms_alloc(int32_t size) {
	ms_handle *h = (ms_handle *)malloc(sizeof(ms_handle));
	h->refcount = 1;
	h->body = (ms_string_body *)malloc(sizeof(ms_string_body) + (size_t)(size + 1) * sizeof(uint16_t));
	h->body->size = size;
	h->body->data[size] = 0;
	return h;
}

static ms_handle *ms_strcat(ms_handle *a, ms_handle *b) {
	if (!a) {
		return b;
	}
	if (!b) {
		return a;
	}
	int32_t la = ms_strlen(a);
	int32_t lb = ms_strlen(b);
	ms_handle *h = ms_alloc(la + lb);
	if (la) {
		memcpy(h->body->data, a->body->data, (size_t)la * sizeof(uint16_t));
	}
	if (lb) {
		memcpy(h->body->data + la, b->body->data, (size_t)lb * sizeof(uint16_t));
	}
	return h;
}

static int32_t ms_strcmp(ms_handle *a, ms_handle *b) {
	if (a == b) {
		return 0;
	}
	int32_t la = ms_strlen(a);
	int32_t lb = ms_strlen(b);
	if (la == 0 && lb == 0) {
		return 0;
	}
	if (la != lb) {
		return 1;
	}
	return memcmp(a->body->data, b->body->data, (size_t)la * sizeof(uint16_t)) == 0 ? 0 : 1;
}

static ms_handle *ms_substr(ms_handle *h, int32_t start, int32_t len) {
	int32_t total = ms_strlen(h);
	int32_t clamped = len;
	if (start + clamped > total) {
		clamped = total - start;
	}
	if (clamped <= 0) {
		return NULL;
	}
	ms_handle *r = ms_alloc(clamped);
	memcpy(r->body->data, h->body->data + start, (size_t)clamped * sizeof(uint16_t));
	return r;
}

static ms_handle *ms_stralloc(uint16_t *ptr, int32_t len) {
	ms_handle *h = ms_alloc(len);
	if (len) {
		memcpy(h->body->data, ptr, (size_t)len * sizeof(uint16_t));
	}
	return h;
}

static uint16_t *ms_strgetptr(ms_handle *h) {
	if (!h || !h->body) {
		return NULL;
	}
	return h->body->data;
}

static void *ms_addr_hdlinc(void)    { return (void *)ms_hdlinc; }
static void *ms_addr_hdldec(void)    { return (void *)ms_hdldec; }
static void *ms_addr_strlen(void)    { return (void *)ms_strlen; }
static void *ms_addr_strcat(void)    { return (void *)ms_strcat; }
static void *ms_addr_strcmp(void)    { return (void *)ms_strcmp; }
static void *ms_addr_substr(void)    { return (void *)ms_substr; }
static void *ms_addr_stralloc(void)  { return (void *)ms_stralloc; }
static void *ms_addr_strgetptr(void) { return (void *)ms_strgetptr; }
*/
import "C"

import "unsafe"

// Names lists the seven fixed intrinsic names. The symbol resolver matches
// a declaration against these (through Address) before any per-script
// imported symbol.
var Names = []string{"hdlinc", "hdldec", "strlen", "strcat", "strcmp", "substr", "strgetptr"}

// Address returns the native entry point for one of the fixed intrinsic
// names plus "stralloc" (used by the host-facing AllocString operation but
// never referenced directly from generated code), or (0, false) if name
// isn't one of them.
func Address(name string) (uintptr, bool) {
	switch name {
	case "hdlinc":
		return uintptr(C.ms_addr_hdlinc()), true
	case "hdldec":
		return uintptr(C.ms_addr_hdldec()), true
	case "strlen":
		return uintptr(C.ms_addr_strlen()), true
	case "strcat":
		return uintptr(C.ms_addr_strcat()), true
	case "strcmp":
		return uintptr(C.ms_addr_strcmp()), true
	case "substr":
		return uintptr(C.ms_addr_substr()), true
	case "stralloc":
		return uintptr(C.ms_addr_stralloc()), true
	case "strgetptr":
		return uintptr(C.ms_addr_strgetptr()), true
	default:
		return 0, false
	}
}

// AllocString implements the host-facing alloc-string operation: allocate
// a refcount=1 handle from a raw UTF-16 code-unit buffer.
func AllocString(units []uint16) unsafe.Pointer {
	if len(units) == 0 {
		return unsafe.Pointer(C.ms_stralloc(nil, 0))
	}
	return unsafe.Pointer(C.ms_stralloc((*C.uint16_t)(unsafe.Pointer(&units[0])), C.int32_t(len(units))))
}

// FreeString implements the host-facing free-string operation: decrement
// the handle's refcount.
func FreeString(h unsafe.Pointer) {
	C.ms_hdldec((*C.ms_handle)(h))
}

// GetString implements the host-facing get-string operation: project the
// handle's raw code-unit pointer. Returns nil if h or its body is nil.
func GetString(h unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(C.ms_strgetptr((*C.ms_handle)(h)))
}

// StringLen returns the code-unit length of the string body, 0 if h is nil.
func StringLen(h unsafe.Pointer) int32 {
	return int32(C.ms_strlen((*C.ms_handle)(h)))
}
