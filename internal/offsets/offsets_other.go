//go:build !amd64 && !386

package offsets

var current = Table{}
