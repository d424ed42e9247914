// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"q3level/bsp"
	"q3level/bsp/bsptest"
	"q3level/cache"
	"q3level/conlog"
	"q3level/database"
	"q3level/filesystem"
	"q3level/math/vec"
	"q3level/progress"
)

// gameDir mounts a game directory with a loose sample level and q3dm17 in a pk3.
func gameDir(t *testing.T) (afero.Fs, *filesystem.SearchPath) {
	t.Helper()
	fs := afero.NewMemMapFs()
	data := bsptest.Sample().Bytes()
	if err := afero.WriteFile(fs, "/q3/baseq3/maps/sample.bsp", data, 0644); err != nil {
		t.Fatal(err)
	}
	var zb bytes.Buffer
	zw := zip.NewWriter(&zb)
	w, err := zw.Create("maps/q3dm17.bsp")
	if err != nil {
		t.Fatal(err)
	}
	w.Write(data)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/q3/baseq3/pak0.pk3", zb.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := filesystem.Mount(fs, "/q3/baseq3")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return fs, s
}

func sample(t *testing.T, src filesystem.Archive) *bsp.Level {
	t.Helper()
	l, err := bsp.Decode("maps/sample.bsp", src, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return l
}

func TestLevelPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"q3dm17", "maps/q3dm17.bsp"},
		{"maps/q3dm17.bsp", "maps/q3dm17.bsp"},
		{"q3dm17.bsp", "q3dm17.bsp"},
		{"maps/q3dm17", "maps/q3dm17"},
	}
	for _, tt := range tests {
		if got := levelPath(tt.in); got != tt.want {
			t.Errorf("levelPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListLevels(t *testing.T) {
	_, s := gameDir(t)
	var b bytes.Buffer
	if err := listLevels(&b, s); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), b.String())
	}
	if !strings.HasPrefix(lines[0], "maps/q3dm17.bsp") || !strings.Contains(lines[0], "The Longest Yard") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "maps/sample.bsp" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestWriteInfo(t *testing.T) {
	_, s := gameDir(t)
	l := sample(t, s)
	var b bytes.Buffer
	if err := writeInfo(&b, l); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"name:    maps/sample.bsp", "version: 46", "size:    128 x 128 x 8", "visdata", "lightmaps"} {
		if !strings.Contains(out, want) {
			t.Errorf("info misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "non-unit normals") {
		t.Errorf("sample reports non-unit normals:\n%s", out)
	}

	l.Vertices[2].Normal = vec.Vec3{}
	b.Reset()
	if err := writeInfo(&b, l); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "non-unit normals: 1") {
		t.Errorf("zero normal not reported:\n%s", b.String())
	}
}

func TestWriteInfoJSON(t *testing.T) {
	_, s := gameDir(t)
	var b bytes.Buffer
	if err := writeInfoJSON(&b, sample(t, s)); err != nil {
		t.Fatal(err)
	}
	var st structpb.Struct
	if err := protojson.Unmarshal(b.Bytes(), &st); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, b.String())
	}
	m := st.AsMap()
	if m["version"] != float64(bsp.VersionQuake3) {
		t.Errorf("version = %v", m["version"])
	}
	if lumps := m["lumps"].([]any); len(lumps) != int(bsp.LumpCount) {
		t.Errorf("got %d lumps, want %d", len(lumps), bsp.LumpCount)
	}
	if m["non_unit_normals"] != float64(0) {
		t.Errorf("non_unit_normals = %v, want 0", m["non_unit_normals"])
	}
	if size := m["size"].([]any); len(size) != 3 || size[0] != float64(128) || size[2] != float64(8) {
		t.Errorf("size = %v, want [128 128 8]", size)
	}
	tables := m["tables"].(map[string]any)
	if tables["faces"] != float64(2) || tables["vertices"] != float64(4) {
		t.Errorf("tables = %v", tables)
	}
}

func TestCountModel(t *testing.T) {
	_, s := gameDir(t)
	l := sample(t, s)
	c, err := countModel(l, 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.vertices != 6 || c.faces != 1 || c.triangles != 2 {
		t.Errorf("counts = %+v, want 6 1 2", c)
	}
	var b bytes.Buffer
	c.write(&b)
	if got, want := b.String(), "model 0: 6 vertices, 1 faces, 2 triangles\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := countModel(l, 1); !errors.Is(err, bsp.ErrIndexOutOfRange) {
		t.Errorf("model 1: got %v, want ErrIndexOutOfRange", err)
	}
	l.Submodels[0].FaceCount = -1
	if _, err := countModel(l, 0); !errors.Is(err, bsp.ErrIndexOutOfRange) {
		t.Errorf("negative face count: got %v, want ErrIndexOutOfRange", err)
	}
}

func TestWriteLightmaps(t *testing.T) {
	_, s := gameDir(t)
	out := afero.NewMemMapFs()
	n, err := writeLightmaps(out, "/out", sample(t, s))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("wrote %d lightmaps, want 1", n)
	}
	if ok, _ := afero.Exists(out, filepath.Join("/out", "sample_lm0000.png")); !ok {
		t.Errorf("sample_lm0000.png missing")
	}
}

func TestWriteTextures(t *testing.T) {
	fs, s := gameDir(t)
	l := sample(t, s)
	var b bytes.Buffer
	missing, err := writeTextures(&b, s, l, conlog.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if missing != 1 || !strings.Contains(b.String(), "missing") {
		t.Errorf("missing = %d:\n%s", missing, b.String())
	}

	// 1x1 24 bit tga
	tga := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 24, 0, 1, 2, 3}
	afero.WriteFile(fs, "/q3/baseq3/textures/base_floor/concrete.tga", tga, 0644)
	b.Reset()
	if missing, err = writeTextures(&b, s, l, conlog.Discard()); err != nil {
		t.Fatal(err)
	}
	if missing != 0 || !strings.Contains(b.String(), "textures/base_floor/concrete.tga") ||
		!strings.Contains(b.String(), "1x1") {
		t.Errorf("missing = %d:\n%s", missing, b.String())
	}
}

func TestExportLevels(t *testing.T) {
	ctx := context.Background()
	_, s := gameDir(t)
	lc, err := cache.New(s, conlog.Discard(), 4)
	if err != nil {
		t.Fatal(err)
	}
	db, err := database.Open(ctx, database.DefaultOptions(filepath.Join(t.TempDir(), "levels.db")))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	names := []string{"maps/sample.bsp", "maps/q3dm17.bsp", "maps/none.bsp"}
	err = exportLevels(ctx, db, s, lc, names, progress.New(nil, len(names), false), conlog.Discard())
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("exportLevels: got %v, want 1 of 3 failed", err)
	}

	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM levels`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("levels = %d, want 2", n)
	}
	var h1, h2 string
	db.QueryRow(ctx, `SELECT file_hash FROM levels WHERE name = ?`, "maps/sample.bsp").Scan(&h1)
	db.QueryRow(ctx, `SELECT file_hash FROM levels WHERE name = ?`, "maps/q3dm17.bsp").Scan(&h2)
	if h1 == "" || h1 != h2 {
		t.Errorf("hashes of identical files differ: %q %q", h1, h2)
	}
}

func TestExportBadModel(t *testing.T) {
	ctx := context.Background()
	fs, s := gameDir(t)
	bad := bsptest.Sample().Records(bsptest.Models, []bsptest.Model{{FirstFace: 0, FaceCount: -1}})
	if err := afero.WriteFile(fs, "/q3/baseq3/maps/bad.bsp", bad.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	lc, err := cache.New(s, conlog.Discard(), 4)
	if err != nil {
		t.Fatal(err)
	}
	db, err := database.Open(ctx, &database.Options{Path: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	names := []string{"maps/bad.bsp", "maps/sample.bsp"}
	if err := exportLevels(ctx, db, s, lc, names, progress.New(nil, len(names), false), conlog.Discard()); err != nil {
		t.Fatalf("exportLevels: %v", err)
	}
	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM submodels s JOIN levels l ON l.id = s.level_id
		WHERE l.name = ? AND s.vertices IS NULL`, "maps/bad.bsp").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("bad submodel rows without counts = %d, want 1", n)
	}
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM levels`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("levels = %d, want 2", n)
	}
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, s := gameDir(t)
	lc, _ := cache.New(s, nil, 1)
	db, err := database.Open(context.Background(), &database.Options{Path: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = exportLevels(ctx, db, s, lc, []string{"maps/sample.bsp"}, progress.New(nil, 1, false), conlog.Discard())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
