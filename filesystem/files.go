// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"q3level/pack"
	"q3level/pk3"
)

// SearchPath is an ordered set of archives. Lookups go through the archives in
// priority order and the first one containing the name wins.
type SearchPath struct {
	mutex    sync.RWMutex
	archives []Archive // highest priority first
}

type packArchive struct {
	p *pack.Pack
}

func (p packArchive) Exists(name string) bool {
	return p.p.Exists(clean(name))
}

func (p packArchive) Open(name string) (File, error) {
	f, err := p.p.Open(clean(name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (p packArchive) Names() []string {
	return p.p.Names()
}

func (p packArchive) String() string {
	return p.p.String()
}

func (p packArchive) Close() error {
	return p.p.Close()
}

type pk3Archive struct {
	a *pk3.Archive
}

func (p pk3Archive) Exists(name string) bool {
	return p.a.Exists(clean(name))
}

func (p pk3Archive) Open(name string) (File, error) {
	f, err := p.a.Open(clean(name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (p pk3Archive) Names() []string {
	return p.a.Names()
}

func (p pk3Archive) String() string {
	return p.a.String()
}

func (p pk3Archive) Close() error {
	return p.a.Close()
}

// Add puts a in front of all archives added before.
func (s *SearchPath) Add(a Archive) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.archives = append([]Archive{a}, s.archives...)
}

// Archives returns the archives in priority order.
func (s *SearchPath) Archives() []Archive {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]Archive(nil), s.archives...)
}

func (s *SearchPath) Exists(name string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, a := range s.archives {
		if a.Exists(name) {
			return true
		}
	}
	return false
}

func (s *SearchPath) Open(name string) (File, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, a := range s.archives {
		if !a.Exists(name) {
			continue
		}
		return a.Open(name)
	}
	return nil, notExist("open", name)
}

// List returns the names ending in suffix of all archives that can enumerate
// their content, without duplicates and sorted.
func (s *SearchPath) List(suffix string) []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	seen := make(map[string]bool)
	var names []string
	for _, a := range s.archives {
		l, ok := a.(Lister)
		if !ok {
			continue
		}
		for _, n := range l.Names() {
			if !strings.HasSuffix(strings.ToLower(n), suffix) || seen[n] {
				continue
			}
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func (s *SearchPath) String() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	n := make([]string, len(s.archives))
	for i, a := range s.archives {
		n[i] = a.String()
	}
	return strings.Join(n, ";")
}

// Close closes every archive holding an open file and empties the search path.
func (s *SearchPath) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var first error
	for _, a := range s.archives {
		c, ok := a.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.archives = nil
	return first
}

// Mount builds the search path of a game directory:
// 1) the loose files of dir
// 2) pak[i].pak files, higher numbers before lower ones
// 3) *.pk3 files, alphabetically later names before earlier ones
// where every step takes priority over the ones before.
func Mount(fs afero.Fs, dir string) (*SearchPath, error) {
	if ok, err := afero.DirExists(fs, dir); err != nil || !ok {
		return nil, errors.Errorf("game directory %s does not exist", dir)
	}
	s := &SearchPath{}
	s.Add(NewDir(fs, dir))
	for i := 0; ; i++ {
		pfp := filepath.Join(dir, fmt.Sprintf("pak%d.pak", i))
		if ok, _ := afero.Exists(fs, pfp); !ok {
			break
		}
		p, err := pack.NewPackReader(fs, pfp)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Add(packArchive{p})
	}
	pk3s, err := afero.Glob(fs, filepath.Join(dir, "*.pk3"))
	if err != nil {
		s.Close()
		return nil, err
	}
	sort.Strings(pk3s)
	for _, n := range pk3s {
		a, err := pk3.NewReader(fs, n)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Add(pk3Archive{a})
	}
	return s, nil
}

// ReadFile returns the full content of name.
func ReadFile(a Archive, name string) ([]byte, error) {
	file, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}

// Base returns the last path element without extension, 'maps/q3dm1.bsp' gives 'q3dm1'.
func Base(path string) string {
	p := StripExt(path)
	for i := len(p) - 1; i >= 0; i-- {
		if isSep(p[i]) {
			return p[i+1:]
		}
	}
	return p
}
