package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

// minimalSpecJSON is the smallest spec run accepts.
func minimalSpecJSON() []byte {
	return []byte(`{
  "package": "car",
  "unit": "EngineUnit",
  "implType": "Engine",
  "required": [
    { "name": "Cylinder", "key": "cylinder", "type": "Cylinder" }
  ]
}`)
}

// ownerFileSource imports time, fmt and di under the unitdi alias.
const ownerFileSource = `package car

import (
	"fmt"
	"time"

	unitdi "github.com/sghaida/unitwire/di"
)

//go:generate go run ../../cmd/unitgen -spec ./engine.unit.json -out ./engine_wiring.gen.go

var _ = fmt.Sprint
var _ time.Duration
var _ unitdi.Args
`

//
// -----------------------------------------------------------------------------
// Files
// -----------------------------------------------------------------------------

func writeTempFile(t *testing.T, dir, name, content string, perm os.FileMode) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), perm))
	return p
}

func readFileString(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

// makeUnreadableGoFile creates name in dir as a dangling symlink, so reading it fails.
func makeUnreadableGoFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.Symlink(filepath.Join(dir, "missing-target"), p); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	return p
}

// mustPanicContains fails unless fn panics with a value whose text contains want.
func mustPanicContains(t *testing.T, want string, fn func()) {
	t.Helper()

	var rec any
	func() {
		defer func() { rec = recover() }()
		fn()
	}()
	require.NotNil(t, rec, "expected a panic")
	require.Contains(t, fmt.Sprint(rec), want)
}

//
// -----------------------------------------------------------------------------
// writeFileAtomic seams
// -----------------------------------------------------------------------------

// fakeTempFile fails Write or Close on demand.
type fakeTempFile struct {
	fileName string
	writeErr error
	closeErr error
}

func (f *fakeTempFile) Name() string { return f.fileName }

func (f *fakeTempFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}

func (f *fakeTempFile) Close() error { return f.closeErr }

// writeSeams replaces the filesystem seams; nil fields keep the real implementation.
type writeSeams struct {
	create func(dir, pattern string) (tempFile, error)
	remove func(path string) error
	chmod  func(path string, mode os.FileMode) error
	rename func(oldpath, newpath string) error
}

// stubWriteSeams installs s for the rest of the test. Callers must not be parallel.
func stubWriteSeams(t *testing.T, s writeSeams) {
	t.Helper()

	create, remove, chmod, rename := createTempFile, removeFile, chmodFile, renameFile
	t.Cleanup(func() {
		createTempFile, removeFile, chmodFile, renameFile = create, remove, chmod, rename
	})

	if s.create != nil {
		createTempFile = s.create
	}
	if s.remove != nil {
		removeFile = s.remove
	}
	if s.chmod != nil {
		chmodFile = s.chmod
	}
	if s.rename != nil {
		renameFile = s.rename
	}
}
