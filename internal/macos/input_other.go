//go:build !darwin

package macos

func postUnicode(string, bool) error {
	return ErrUnsupported
}
