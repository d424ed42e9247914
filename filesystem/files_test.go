// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

func writePak(t *testing.T, fs afero.Fs, name string, files [][2]string) {
	t.Helper()
	var data bytes.Buffer
	offsets := make([]int32, len(files))
	for i, f := range files {
		offsets[i] = int32(12 + data.Len())
		data.WriteString(f[1])
	}
	var out bytes.Buffer
	out.WriteString("PACK")
	binary.Write(&out, binary.LittleEndian, int32(12+data.Len()))
	binary.Write(&out, binary.LittleEndian, int32(64*len(files)))
	out.Write(data.Bytes())
	for i, f := range files {
		var n [56]byte
		copy(n[:], f[0])
		out.Write(n[:])
		binary.Write(&out, binary.LittleEndian, offsets[i])
		binary.Write(&out, binary.LittleEndian, int32(len(f[1])))
	}
	if err := afero.WriteFile(fs, name, out.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func writePk3(t *testing.T, fs afero.Fs, name string, files [][2]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f[0])
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(f[1]))
	}
	zw.Close()
	if err := afero.WriteFile(fs, name, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func gameDir(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	dir := "baseq3"
	afero.WriteFile(fs, filepath.Join(dir, "doc1.txt"), []byte("loose doc1"), 0644)
	afero.WriteFile(fs, filepath.Join(dir, "doc5.txt"), []byte("good file5\n"), 0644)
	writePak(t, fs, filepath.Join(dir, "pak0.pak"), [][2]string{
		{"doc1.txt", "this is the first doc\r\n"},
		{"doc2.txt", "this is the second doc"},
	})
	writePak(t, fs, filepath.Join(dir, "pak1.pak"), [][2]string{
		{"doc1.txt", "this is the first doc 2. version\r\n"},
	})
	writePk3(t, fs, filepath.Join(dir, "a.pk3"), [][2]string{
		{"doc2.txt", "this is the second doc a"},
		{"maps/q3dm1.bsp", "IBSP"},
	})
	writePk3(t, fs, filepath.Join(dir, "z.pk3"), [][2]string{
		{"doc2.txt", "this is the second doc z"},
		{"maps/q3dm17.bsp", "IBSP"},
	})
	return fs
}

func readString(t *testing.T, a Archive, name string) string {
	t.Helper()
	b, err := ReadFile(a, name)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", name, err)
	}
	return string(b)
}

func TestFilesystemOrder(t *testing.T) {
	s, err := Mount(gameDir(t), "baseq3")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer s.Close()
	tests := []struct {
		name string
		want string
	}{
		{"doc1.txt", "this is the first doc 2. version\r\n"},
		{"/doc1.txt", "this is the first doc 2. version\r\n"},
		{"doc2.txt", "this is the second doc z"},
		{"doc5.txt", "good file5\n"},
	}
	for _, tc := range tests {
		if got := readString(t, s, tc.name); got != tc.want {
			t.Errorf("ReadFile(%s) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFilesystemMissing(t *testing.T) {
	s, err := Mount(gameDir(t), "baseq3")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer s.Close()
	if s.Exists("doc9.txt") {
		t.Errorf("Exists(doc9.txt) = true")
	}
	if _, err := s.Open("doc9.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(doc9.txt) = %v, want os.ErrNotExist", err)
	}
	if _, err := Mount(afero.NewMemMapFs(), "nothere"); err == nil {
		t.Errorf("Mount of a missing directory succeeded")
	}
}

func TestFilesystemList(t *testing.T) {
	s, err := Mount(gameDir(t), "baseq3")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer s.Close()
	got := s.List(".bsp")
	want := []string{"maps/q3dm1.bsp", "maps/q3dm17.bsp"}
	if len(got) != len(want) {
		t.Fatalf("List(.bsp) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List(.bsp)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDirFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "root/maps/x.bsp", []byte("0123456789"), 0644)
	d := NewDir(fs, "root")
	if !d.Exists("maps/x.bsp") || d.Exists("maps") {
		t.Errorf("Exists does not distinguish files and directories")
	}
	f, err := d.Open("maps/x.bsp")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	if f.Size() != 10 {
		t.Errorf("Size() = %v, want 10", f.Size())
	}
	b, _ := io.ReadAll(f)
	if string(b) != "0123456789" {
		t.Errorf("content = %q", b)
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		in, ext, strip, base string
	}{
		{"maps/q3dm1.bsp", ".bsp", "maps/q3dm1", "q3dm1"},
		{"q3dm1", "", "q3dm1", "q3dm1"},
		{"a.b/c", "", "a.b/c", "c"},
		{`maps\x.bsp`, ".bsp", `maps\x`, "x"},
	}
	for _, tc := range tests {
		if got := Ext(tc.in); got != tc.ext {
			t.Errorf("Ext(%q) = %q, want %q", tc.in, got, tc.ext)
		}
		if got := StripExt(tc.in); got != tc.strip {
			t.Errorf("StripExt(%q) = %q, want %q", tc.in, got, tc.strip)
		}
		if got := Base(tc.in); got != tc.base {
			t.Errorf("Base(%q) = %q, want %q", tc.in, got, tc.base)
		}
	}
}
