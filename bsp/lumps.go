// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"q3level/math/vec"
)

func (d *decoder) loadVertexes(l *Level) error {
	vs, err := readLump[vertex](d, LumpVertexes)
	if err != nil {
		return err
	}
	l.Vertices = make([]Vertex, len(vs))
	for i, v := range vs {
		l.Vertices[i] = Vertex{
			Position:      vec.VFromA(v.Position),
			TexCoord:      v.TexCoord,
			LightmapCoord: v.LightmapCoord,
			Normal:        vec.VFromA(v.Normal),
			Color:         v.Color,
		}
	}
	return nil
}

func (d *decoder) loadMeshVerts(l *Level) error {
	ms, err := readLump[int32](d, LumpMeshVerts)
	if err != nil {
		return err
	}
	l.MeshVertices = toInts(ms)
	return nil
}

func (d *decoder) loadFaces(l *Level) error {
	fs, err := readLump[face](d, LumpFaces)
	if err != nil {
		return err
	}
	l.Faces = make([]Face, len(fs))
	for i, f := range fs {
		l.Faces[i] = Face{
			TextureID:       int(f.TextureID),
			EffectID:        int(f.EffectID),
			Type:            FaceType(f.Type),
			FirstVertex:     int(f.FirstVertex),
			VertexCount:     int(f.VertexCount),
			FirstMeshVertex: int(f.FirstMeshVertex),
			MeshVertexCount: int(f.MeshVertexCount),
			LightmapID:      int(f.LightmapID),
			LightmapStart:   [2]int{int(f.LightmapStart[0]), int(f.LightmapStart[1])},
			LightmapSize:    [2]int{int(f.LightmapSize[0]), int(f.LightmapSize[1])},
			LightmapOrigin:  vec.VFromA(f.LightmapOrigin),
			LightmapVecs:    [2]vec.Vec3{vec.VFromA(f.LightmapVecs[0]), vec.VFromA(f.LightmapVecs[1])},
			Normal:          vec.VFromA(f.Normal),
			PatchSize:       [2]int{int(f.PatchSize[0]), int(f.PatchSize[1])},
		}
	}
	return nil
}

func (d *decoder) loadModels(l *Level) error {
	ms, err := readLump[model](d, LumpModels)
	if err != nil {
		return err
	}
	l.Submodels = make([]Submodel, len(ms))
	for i, m := range ms {
		l.Submodels[i] = Submodel{
			Mins:       vec.VFromA(m.Mins),
			Maxs:       vec.VFromA(m.Maxs),
			FirstFace:  int(m.FirstFace),
			FaceCount:  int(m.FaceCount),
			FirstBrush: int(m.FirstBrush),
			BrushCount: int(m.BrushCount),
		}
	}
	return nil
}

func (d *decoder) loadTextures(l *Level) error {
	ts, err := readLump[texture](d, LumpTextures)
	if err != nil {
		return err
	}
	l.Textures = make([]Texture, len(ts))
	for i, t := range ts {
		l.Textures[i] = Texture{
			name:         cString(t.Name[:]),
			SurfaceFlags: t.SurfaceFlags,
			ContentFlags: t.ContentFlags,
		}
	}
	return nil
}

func (d *decoder) loadLightmaps(l *Level) error {
	ls, err := readLump[lightmap](d, LumpLightmaps)
	if err != nil {
		return err
	}
	l.Lightmaps = make([]Lightmap, len(ls))
	for i := range ls {
		l.Lightmaps[i] = Lightmap(ls[i].Data)
	}
	return nil
}

func (d *decoder) loadEntities(l *Level) error {
	raw, err := d.lump(LumpEntities, 1)
	if err != nil {
		return err
	}
	l.EntityText = append([]byte{}, raw...)
	return nil
}

func planeType(n vec.Vec3) byte {
	switch {
	case n.X == 1 || n.X == -1:
		return 0
	case n.Y == 1 || n.Y == -1:
		return 1
	case n.Z == 1 || n.Z == -1:
		return 2
	}
	return 3
}

func signBits(n vec.Vec3) byte {
	var b byte
	for j, c := range n.Array() {
		if c < 0 {
			b |= 1 << j
		}
	}
	return b
}

func (d *decoder) loadPlanes(l *Level) error {
	ps, err := readLump[plane](d, LumpPlanes)
	if err != nil {
		return err
	}
	l.Planes = make([]Plane, len(ps))
	for i, p := range ps {
		n := vec.VFromA(p.Normal)
		l.Planes[i] = Plane{
			Normal:   n,
			Dist:     p.Distance,
			Type:     planeType(n),
			SignBits: signBits(n),
		}
	}
	return nil
}

func (d *decoder) loadNodes(l *Level) error {
	ns, err := readLump[node](d, LumpNodes)
	if err != nil {
		return err
	}
	l.Nodes = make([]Node, len(ns))
	for i, n := range ns {
		l.Nodes[i] = Node{
			PlaneID:  int(n.PlaneID),
			Children: [2]int{int(n.Children[0]), int(n.Children[1])},
			Mins:     vec.VFromInts(n.Mins),
			Maxs:     vec.VFromInts(n.Maxs),
		}
	}
	return nil
}

func (d *decoder) loadLeafs(l *Level) error {
	ls, err := readLump[leaf](d, LumpLeafs)
	if err != nil {
		return err
	}
	l.Leafs = make([]Leaf, len(ls))
	for i, lf := range ls {
		l.Leafs[i] = Leaf{
			Cluster:        int(lf.Cluster),
			Area:           int(lf.Area),
			Mins:           vec.VFromInts(lf.Mins),
			Maxs:           vec.VFromInts(lf.Maxs),
			FirstLeafFace:  int(lf.FirstLeafFace),
			LeafFaceCount:  int(lf.LeafFaceCount),
			FirstLeafBrush: int(lf.FirstLeafBrush),
			LeafBrushCount: int(lf.LeafBrushCount),
		}
	}
	return nil
}

func (d *decoder) loadLeafFaces(l *Level) error {
	fs, err := readLump[int32](d, LumpLeafFaces)
	if err != nil {
		return err
	}
	l.LeafFaces = toInts(fs)
	return nil
}

func (d *decoder) loadLeafBrushes(l *Level) error {
	bs, err := readLump[int32](d, LumpLeafBrushes)
	if err != nil {
		return err
	}
	l.LeafBrushes = toInts(bs)
	return nil
}

func (d *decoder) loadBrushes(l *Level) error {
	bs, err := readLump[brush](d, LumpBrushes)
	if err != nil {
		return err
	}
	l.Brushes = make([]Brush, len(bs))
	for i, b := range bs {
		l.Brushes[i] = Brush{
			FirstSide: int(b.FirstSide),
			SideCount: int(b.SideCount),
			TextureID: int(b.TextureID),
		}
	}
	return nil
}

func (d *decoder) loadBrushSides(l *Level) error {
	bs, err := readLump[brushSide](d, LumpBrushSides)
	if err != nil {
		return err
	}
	l.BrushSides = make([]BrushSide, len(bs))
	for i, b := range bs {
		l.BrushSides[i] = BrushSide{
			PlaneID:   int(b.PlaneID),
			TextureID: int(b.TextureID),
		}
	}
	return nil
}

func (d *decoder) loadEffects(l *Level) error {
	es, err := readLump[effect](d, LumpEffects)
	if err != nil {
		return err
	}
	l.Effects = make([]Effect, len(es))
	for i, e := range es {
		l.Effects[i] = Effect{
			name:    cString(e.Name[:]),
			BrushID: int(e.BrushID),
		}
	}
	return nil
}

func (d *decoder) loadLightVols(l *Level) error {
	vs, err := readLump[lightVol](d, LumpLightVols)
	if err != nil {
		return err
	}
	l.LightVolumes = make([]LightVolume, len(vs))
	for i, v := range vs {
		l.LightVolumes[i] = LightVolume(v)
	}
	return nil
}

func (d *decoder) loadVisData(l *Level) error {
	raw, err := d.lump(LumpVisData, 1)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	var h visHeader
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &h); err != nil {
		return d.fail(LumpVisData, errors.Wrap(ErrMalformedLump, err.Error()))
	}
	n := int64(h.VectorCount) * int64(h.VectorSize)
	if h.VectorCount < 0 || h.VectorSize < 0 || n > int64(len(raw)-8) {
		return d.fail(LumpVisData, errors.Wrapf(ErrMalformedLump,
			"%d vectors of %d bytes do not fit into %d bytes", h.VectorCount, h.VectorSize, len(raw)-8))
	}
	l.Vis = Vis{
		VectorCount: int(h.VectorCount),
		VectorSize:  int(h.VectorSize),
		Data:        append([]byte{}, raw[8:8+n]...),
	}
	return nil
}

func toInts(in []int32) []int {
	r := make([]int, len(in))
	for i, v := range in {
		r[i] = int(v)
	}
	return r
}
