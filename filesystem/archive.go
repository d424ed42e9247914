// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"io"
	"os"
	"path"
	"strings"
)

// File is an open archive entry. Size reports the number of bytes a full read
// has to deliver.
type File interface {
	io.Reader
	io.Closer
	Size() int64
}

// Archive is a named container of files, like a directory, a pak or a pk3.
type Archive interface {
	Exists(name string) bool
	// Open returns os.ErrNotExist if the archive has no entry called name.
	Open(name string) (File, error)
	String() string
}

// Lister is implemented by archives that can enumerate their entries.
type Lister interface {
	Names() []string
}

// clean maps a request to the form used inside archives: forward slashes and no
// leading slash, there is no 'root' inside a pack.
func clean(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	return strings.TrimPrefix(name, "/")
}

func notExist(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: os.ErrNotExist}
}
