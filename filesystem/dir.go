// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"io/fs"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// Dir serves the loose files below root.
type Dir struct {
	fs   afero.Fs
	root string
}

type dirFile struct {
	afero.File
	size int64
}

func (f *dirFile) Size() int64 {
	return f.size
}

func NewDir(fsys afero.Fs, root string) *Dir {
	return &Dir{fs: fsys, root: root}
}

func (d *Dir) path(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(clean(name)))
}

func (d *Dir) Exists(name string) bool {
	fi, err := d.fs.Stat(d.path(name))
	return err == nil && !fi.IsDir()
}

func (d *Dir) Open(name string) (File, error) {
	p := d.path(name)
	f, err := d.fs.Open(p)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, notExist("open", name)
	}
	return &dirFile{File: f, size: fi.Size()}, nil
}

// Names returns all regular files below root as slash separated relative paths.
func (d *Dir) Names() []string {
	var names []string
	afero.Walk(d.fs, d.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return nil
		}
		names = append(names, path.Clean(filepath.ToSlash(rel)))
		return nil
	})
	return names
}

func (d *Dir) String() string {
	return d.root
}
