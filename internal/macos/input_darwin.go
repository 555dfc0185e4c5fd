//go:build darwin

package macos

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdbool.h>

// post_unicode posts a keyboard event whose payload is the given UTF-16
// string. Virtual key 0 is ignored by receivers when a Unicode string is set.
static int post_unicode(const UniChar *chars, int n, bool down) {
	CGEventRef ev = CGEventCreateKeyboardEvent(NULL, 0, down);
	if (ev == NULL) {
		return -1;
	}
	CGEventSetFlags(ev, 0);
	CGEventKeyboardSetUnicodeString(ev, (UniCharCount)n, chars);
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 0;
}
*/
import "C"

import (
	"errors"
	"unicode/utf16"
	"unsafe"
)

// postUnicode sends one grapheme cluster as a single key event.
func postUnicode(s string, down bool) error {
	units := utf16.Encode([]rune(s))
	if len(units) == 0 {
		return errors.New("macos: empty unicode payload")
	}
	if C.post_unicode((*C.UniChar)(unsafe.Pointer(&units[0])), C.int(len(units)), C.bool(down)) != 0 {
		return errors.New("macos: create keyboard event failed")
	}
	return nil
}
