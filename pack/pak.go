// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const entrySize = 64 // Sizeof(entry)

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

var magic = [4]byte{'P', 'A', 'C', 'K'}

type Pack struct {
	f     afero.File
	files map[string]*qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// File is one entry of a pak. Closing it does not close the pak.
type File struct {
	*io.SectionReader
}

func (*File) Close() error {
	return nil
}

// Open returns a reader limited to the entry or os.ErrNotExist if the pak has
// no entry with the provided name.
func (p *Pack) Open(name string) (*File, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	return &File{io.NewSectionReader(p.f, q.offset, q.size)}, nil
}

func (p *Pack) Exists(name string) bool {
	_, ok := p.files[name]
	return ok
}

// Names returns the entry names in sorted order.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	return p.f.Close()
}

func (p *Pack) init() error {
	fi, err := p.f.Stat()
	if err != nil {
		return err
	}
	var h header
	if err := binary.Read(p.f, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "reading pack header")
	}
	if !bytes.Equal(magic[:], h.ID[:]) {
		return errors.New("Not a pack")
	}
	if h.Offset < 0 || h.Size < 0 || int64(h.Offset)+int64(h.Size) > fi.Size() {
		return errors.New("Not long enough")
	}
	if _, err := p.f.Seek(int64(h.Offset), io.SeekStart); err != nil {
		return err
	}
	filenum := h.Size / entrySize
	p.files = make(map[string]*qfile, filenum)
	for i := int32(0); i < filenum; i++ {
		var e entry
		if err := binary.Read(p.f, binary.LittleEndian, &e); err != nil {
			return errors.Wrapf(err, "reading pack entry %d", i)
		}
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = len(e.Name)
		}
		name := string(e.Name[:n])
		if p.files[name] != nil {
			return errors.New("files in pack are not unique")
		}
		if e.Offset < 0 || e.Size < 0 || int64(e.Offset)+int64(e.Size) > fi.Size() {
			return errors.Errorf("entry %s lies outside of the pack", name)
		}
		p.files[name] = &qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

func NewPackReader(fs afero.Fs, name string) (*Pack, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	p := &Pack{f: f, name: name}
	if err := p.init(); err != nil {
		p.Close()
		return nil, errors.WithMessage(err, name)
	}
	return p, nil
}
