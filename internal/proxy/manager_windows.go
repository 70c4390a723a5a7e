//go:build windows

package proxy

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// Manager holds the original DLL and the procs resolved from it.
type Manager struct {
	dll *windows.DLL

	mu    sync.RWMutex
	procs map[string]*windows.Proc
}

// New loads the original DLL from path.
func New(path string) (*Manager, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return &Manager{dll: dll, procs: make(map[string]*windows.Proc)}, nil
}

// NewSystem loads name from the system directory.
func NewSystem(name string) (*Manager, error) {
	path, err := SystemPath(os.Getenv, name)
	if err != nil {
		return nil, err
	}
	return New(path)
}

// Proc returns the cached export name.
func (m *Manager) Proc(name string) (*windows.Proc, error) {
	m.mu.RLock()
	p, ok := m.procs[name]
	m.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := m.dll.FindProc(name)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s in %s", name, m.dll.Name)
	}
	m.mu.Lock()
	m.procs[name] = p
	m.mu.Unlock()
	return p, nil
}

// Call invokes the original export. Its first return is the export's result.
func (m *Manager) Call(name string, args ...uintptr) (uintptr, error) {
	p, err := m.Proc(name)
	if err != nil {
		return 0, err
	}
	r, _, _ := p.Call(args...)
	return r, nil
}

// Release unloads the original DLL.
func (m *Manager) Release() error {
	return m.dll.Release()
}
