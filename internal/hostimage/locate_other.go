//go:build !windows

package hostimage

import "github.com/pkg/errors"

var ErrUnsupported = errors.New("host image lookup needs windows")

func Locate() (Image, error) {
	return Image{}, ErrUnsupported
}
