// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"q3level/filesystem"
)

// Logger receives informational messages while decoding. *slog.Logger
// implements it.
type Logger interface {
	Info(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}

// Decode reads the level called name from src and decodes it.
// Either a complete Level or an error is returned, never both.
func Decode(name string, src filesystem.Archive, log Logger) (*Level, error) {
	data, err := readData(name, src)
	if err != nil {
		return nil, &DecodeError{Name: name, Lump: noLump, Err: err}
	}
	return Parse(name, data, log)
}

func readData(name string, src filesystem.Archive) ([]byte, error) {
	if !src.Exists(name) {
		return nil, ErrNotFound
	}
	f, err := src.Open(name)
	if err != nil {
		return nil, errors.Wrapf(ErrOpenFailed, "%v", err)
	}
	if f == nil {
		return nil, ErrOpenFailed
	}
	defer f.Close()

	size := f.Size()
	if size < 0 {
		return nil, errors.Wrapf(ErrShortRead, "invalid size %d", size)
	}
	// Size comes from archive directories and may lie. Only allocate what
	// is actually read.
	data, err := io.ReadAll(io.LimitReader(f, size))
	if err != nil {
		return nil, errors.Wrapf(ErrShortRead, "got %d of %d bytes: %v", len(data), size, err)
	}
	if int64(len(data)) != size {
		return nil, errors.Wrapf(ErrShortRead, "got %d of %d bytes", len(data), size)
	}
	return data, nil
}

type decoder struct {
	name  string
	data  []byte
	lumps []Lump
	log   Logger
}

func (d *decoder) fail(id LumpID, err error) error {
	return &DecodeError{Name: d.name, Lump: id, Err: err}
}

// lump returns the bytes of lump id after checking that they exist and hold
// whole records of width bytes.
func (d *decoder) lump(id LumpID, width int) ([]byte, error) {
	l := d.lumps[id]
	if int64(l.Size)%int64(width) != 0 {
		return nil, d.fail(id, errors.Wrapf(ErrMalformedLump,
			"size %d is not a multiple of %d", l.Size, width))
	}
	if uint64(l.Offset)+uint64(l.Size) > uint64(len(d.data)) {
		return nil, d.fail(id, errors.Wrapf(ErrLumpOutOfBounds,
			"%d+%d exceeds %d bytes", l.Offset, l.Size, len(d.data)))
	}
	return d.data[int(l.Offset) : int(l.Offset)+int(l.Size)], nil
}

// readLump decodes lump id as a sequence of fixed size records of type T.
func readLump[T any](d *decoder, id LumpID) ([]T, error) {
	var zero T
	width := binary.Size(zero)
	raw, err := d.lump(id, width)
	if err != nil {
		return nil, err
	}
	r := make([]T, len(raw)/width)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, r); err != nil {
		return nil, d.fail(id, errors.Wrap(ErrMalformedLump, err.Error()))
	}
	return r, nil
}

// Parse decodes a level from data. The returned Level does not reference data.
func Parse(name string, data []byte, log Logger) (*Level, error) {
	if log == nil {
		log = nopLogger{}
	}
	d := &decoder{name: name, data: data, log: log}
	fail := func(err error) (*Level, error) {
		return nil, d.fail(noLump, err)
	}

	if len(data) == 0 {
		return fail(ErrEmptyInput)
	}
	if len(data) < headerSize {
		return fail(errors.Wrapf(ErrTooSmall, "%d bytes, header needs %d", len(data), headerSize))
	}
	var h header
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &h); err != nil {
		return fail(errors.Wrap(ErrTooSmall, err.Error()))
	}
	if h.Magic != magic {
		return fail(errors.Wrapf(ErrBadMagic, "%q", h.Magic[:]))
	}

	// Lump layouts of other versions are not known. Accept them anyway and
	// leave a hint in case the tables turn out to be garbage.
	log.Info("loading bsp", "name", name, "version", h.Version, "lumps", int(LumpCount),
		"known", h.Version == VersionQuake3 || h.Version == VersionRTCW)

	if len(data) < headerSize+directorySize {
		return fail(errors.Wrapf(ErrTooSmall, "%d bytes, directory needs %d",
			len(data), headerSize+directorySize))
	}
	d.lumps = make([]Lump, LumpCount)
	dir := bytes.NewReader(data[headerSize : headerSize+directorySize])
	if err := binary.Read(dir, binary.LittleEndian, d.lumps); err != nil {
		return fail(errors.Wrap(ErrTooSmall, err.Error()))
	}

	l := &Level{
		name:    name,
		Version: h.Version,
		Lumps:   d.lumps,
	}
	if err := d.loadTables(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (d *decoder) loadTables(l *Level) error {
	// tables needed to describe the level, a damaged one fails the decode
	required := []func(*Level) error{
		d.loadVertexes,
		d.loadMeshVerts,
		d.loadFaces,
		d.loadModels,
		d.loadTextures,
		d.loadLightmaps,
		d.loadEntities,
	}
	for _, load := range required {
		if err := load(l); err != nil {
			return err
		}
	}

	// the rest is only reported and left empty when damaged
	extra := []struct {
		id    LumpID
		load  func(*Level) error
		reset func(*Level)
	}{
		{LumpPlanes, d.loadPlanes, func(l *Level) { l.Planes = nil }},
		{LumpNodes, d.loadNodes, func(l *Level) { l.Nodes = nil }},
		{LumpLeafs, d.loadLeafs, func(l *Level) { l.Leafs = nil }},
		{LumpLeafFaces, d.loadLeafFaces, func(l *Level) { l.LeafFaces = nil }},
		{LumpLeafBrushes, d.loadLeafBrushes, func(l *Level) { l.LeafBrushes = nil }},
		{LumpBrushes, d.loadBrushes, func(l *Level) { l.Brushes = nil }},
		{LumpBrushSides, d.loadBrushSides, func(l *Level) { l.BrushSides = nil }},
		{LumpEffects, d.loadEffects, func(l *Level) { l.Effects = nil }},
		{LumpLightVols, d.loadLightVols, func(l *Level) { l.LightVolumes = nil }},
		{LumpVisData, d.loadVisData, func(l *Level) { l.Vis = Vis{} }},
	}
	for _, e := range extra {
		if err := e.load(l); err != nil {
			e.reset(l)
			d.log.Info("skipping damaged lump", "name", d.name, "lump", e.id.String(), "error", err.Error())
		}
	}
	return nil
}
