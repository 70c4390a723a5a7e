// Package proxy forwards exports of a proxied system DLL to the real one.
package proxy

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrNoSystemRoot = errors.New("SystemRoot not set")

// SystemPath returns %SystemRoot%\System32\<name>. getenv is usually
// os.Getenv.
func SystemPath(getenv func(string) string, name string) (string, error) {
	root := strings.TrimSpace(getenv("SystemRoot"))
	if root == "" {
		return "", ErrNoSystemRoot
	}
	return filepath.Join(root, "System32", name), nil
}
