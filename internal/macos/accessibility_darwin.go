//go:build darwin

package macos

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdint.h>
#include <stdlib.h>

static int ax_trusted(void) {
	return AXIsProcessTrusted() ? 1 : 0;
}

static uintptr_t ax_focused_element(int *status) {
	AXUIElementRef system = AXUIElementCreateSystemWide();
	CFTypeRef focused = NULL;
	AXError err = AXUIElementCopyAttributeValue(system, kAXFocusedUIElementAttribute, &focused);
	CFRelease(system);
	*status = (int)err;
	if (err != kAXErrorSuccess || focused == NULL) {
		return 0;
	}
	return (uintptr_t)focused;
}

static CFStringRef ax_cfstring(const char *s) {
	return CFStringCreateWithCString(kCFAllocatorDefault, s, kCFStringEncodingUTF8);
}

static int ax_set_string(uintptr_t el, const char *attr, const char *value) {
	CFStringRef name = ax_cfstring(attr);
	CFStringRef str = ax_cfstring(value);
	if (name == NULL || str == NULL) {
		if (name) CFRelease(name);
		if (str) CFRelease(str);
		return (int)kAXErrorIllegalArgument;
	}
	AXError err = AXUIElementSetAttributeValue((AXUIElementRef)el, name, str);
	CFRelease(name);
	CFRelease(str);
	return (int)err;
}

static char *ax_copy_string(uintptr_t el, const char *attr, int *status) {
	CFStringRef name = ax_cfstring(attr);
	if (name == NULL) {
		*status = (int)kAXErrorIllegalArgument;
		return NULL;
	}
	CFTypeRef value = NULL;
	AXError err = AXUIElementCopyAttributeValue((AXUIElementRef)el, name, &value);
	CFRelease(name);
	*status = (int)err;
	if (err != kAXErrorSuccess || value == NULL) {
		return NULL;
	}
	if (CFGetTypeID(value) != CFStringGetTypeID()) {
		CFRelease(value);
		*status = (int)kAXErrorAttributeUnsupported;
		return NULL;
	}
	CFIndex length = CFStringGetLength((CFStringRef)value);
	CFIndex size = CFStringGetMaximumSizeForEncoding(length, kCFStringEncodingUTF8) + 1;
	char *buf = malloc(size);
	if (buf == NULL || !CFStringGetCString((CFStringRef)value, buf, size, kCFStringEncodingUTF8)) {
		free(buf);
		CFRelease(value);
		*status = (int)kAXErrorFailure;
		return NULL;
	}
	CFRelease(value);
	return buf;
}

static void ax_release(uintptr_t el) {
	if (el != 0) {
		CFRelease((CFTypeRef)el);
	}
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/chaz8081/dictabar/internal/inject"
)

// ErrNotTrusted means the process has not been granted Accessibility access
// in System Settings > Privacy & Security > Accessibility.
var ErrNotTrusted = errors.New("macos: accessibility access not granted")

// AXError mirrors the AXError codes returned by the Accessibility API.
type AXError int

func (e AXError) Error() string {
	return fmt.Sprintf("macos: AXError %d", int(e))
}

// Accessibility reads and writes attributes of the system-wide focused element.
type Accessibility struct{}

// NewAccessibility returns the Accessibility bridge.
func NewAccessibility() *Accessibility {
	return &Accessibility{}
}

// axElement owns one retained AXUIElementRef.
type axElement struct {
	ref C.uintptr_t
}

func (e *axElement) Release() {
	if e.ref != 0 {
		C.ax_release(e.ref)
		e.ref = 0
	}
}

// FocusedElement returns the element that currently has keyboard focus.
// The caller must Release it.
func (a *Accessibility) FocusedElement() (inject.Element, error) {
	if C.ax_trusted() == 0 {
		return nil, ErrNotTrusted
	}
	var status C.int
	ref := C.ax_focused_element(&status)
	if ref == 0 {
		return nil, fmt.Errorf("macos: focused element: %w", AXError(status))
	}
	return &axElement{ref: ref}, nil
}

// Attribute reads a string attribute.
func (a *Accessibility) Attribute(el inject.Element, name string) (string, error) {
	ax, ok := el.(*axElement)
	if !ok || ax.ref == 0 {
		return "", fmt.Errorf("macos: attribute %s: invalid element", name)
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var status C.int
	cval := C.ax_copy_string(ax.ref, cname, &status)
	if cval == nil {
		return "", fmt.Errorf("macos: attribute %s: %w", name, AXError(status))
	}
	defer C.free(unsafe.Pointer(cval))
	return C.GoString(cval), nil
}

// SetAttribute writes a string attribute.
func (a *Accessibility) SetAttribute(el inject.Element, name, value string) error {
	ax, ok := el.(*axElement)
	if !ok || ax.ref == 0 {
		return fmt.Errorf("macos: set attribute %s: invalid element", name)
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	cval := C.CString(value)
	defer C.free(unsafe.Pointer(cval))

	if status := C.ax_set_string(ax.ref, cname, cval); status != 0 {
		return fmt.Errorf("macos: set attribute %s: %w", name, AXError(status))
	}
	return nil
}
