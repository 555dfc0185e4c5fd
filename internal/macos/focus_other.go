//go:build !darwin

package macos

func activeProcessName() (string, error) {
	return "", ErrUnsupported
}
