// SPDX-License-Identifier: GPL-2.0-or-later

// Package pk3 reads the zip containers Quake III ships its data in.
package pk3

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Archive is an opened pk3. Entry names are matched case insensitive like the
// game does.
type Archive struct {
	f     afero.File
	files map[string]*zip.File
	name  string
}

// File is an open entry, Size is the uncompressed size.
type File struct {
	io.ReadCloser
	size int64
}

func (f *File) Size() int64 {
	return f.size
}

func key(name string) string {
	return strings.ToLower(name)
}

func (a *Archive) Exists(name string) bool {
	_, ok := a.files[key(name)]
	return ok
}

// Open returns os.ErrNotExist if there is no entry called name.
func (a *Archive) Open(name string) (*File, error) {
	zf, ok := a.files[key(name)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s", a.name, name)
	}
	return &File{ReadCloser: rc, size: int64(zf.UncompressedSize64)}, nil
}

// Names returns the lower cased entry names in sorted order.
func (a *Archive) Names() []string {
	n := make([]string, 0, len(a.files))
	for k := range a.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

func (a *Archive) String() string {
	return a.name
}

func (a *Archive) Close() error {
	return a.f.Close()
}

func NewReader(fs afero.Fs, name string) (*Archive, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "%s is not a pk3", name)
	}
	a := &Archive{
		f:     f,
		files: make(map[string]*zip.File, len(zr.File)),
		name:  name,
	}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		// later entries with the same name win, as with repeated pk3s
		a.files[key(zf.Name)] = zf
	}
	return a, nil
}
