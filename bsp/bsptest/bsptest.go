// SPDX-License-Identifier: GPL-2.0-or-later

// Package bsptest assembles synthetic IBSP files for tests.
package bsptest

import (
	"bytes"
	"encoding/binary"
)

// Lump positions inside the directory.
const (
	Entities = iota
	Textures
	Planes
	Nodes
	Leafs
	LeafFaces
	LeafBrushes
	Models
	Brushes
	BrushSides
	Vertexes
	MeshVerts
	Effects
	Faces
	Lightmaps
	LightVols
	VisData
	LumpCount
)

const HeaderSize = 8 + 8*LumpCount

type Vertex struct {
	Position      [3]float32
	TexCoord      [2]float32
	LightmapCoord [2]float32
	Normal        [3]float32
	Color         [4]uint8
}

type Face struct {
	TextureID       int32
	EffectID        int32
	Type            int32
	FirstVertex     int32
	VertexCount     int32
	FirstMeshVertex int32
	MeshVertexCount int32
	LightmapID      int32
	LightmapStart   [2]int32
	LightmapSize    [2]int32
	LightmapOrigin  [3]float32
	LightmapVecs    [2][3]float32
	Normal          [3]float32
	PatchSize       [2]int32
}

type Model struct {
	Mins       [3]float32
	Maxs       [3]float32
	FirstFace  int32
	FaceCount  int32
	FirstBrush int32
	BrushCount int32
}

type Texture struct {
	Name         [64]byte
	SurfaceFlags int32
	ContentFlags int32
}

type Plane struct {
	Normal [3]float32
	Dist   float32
}

type Leaf struct {
	Cluster, Area                  int32
	Mins, Maxs                     [3]int32
	FirstLeafFace, LeafFaceCount   int32
	FirstLeafBrush, LeafBrushCount int32
}

func Name64(s string) [64]byte {
	var n [64]byte
	copy(n[:], s)
	return n
}

// Builder lays out the lumps in directory order after the header.
type Builder struct {
	Magic   [4]byte
	Version int32
	lumps   [LumpCount][]byte
	dir     map[int][2]uint32
}

func New() *Builder {
	return &Builder{
		Magic:   [4]byte{'I', 'B', 'S', 'P'},
		Version: 46,
		dir:     make(map[int][2]uint32),
	}
}

// Raw sets the content of lump id.
func (b *Builder) Raw(id int, data []byte) *Builder {
	b.lumps[id] = data
	return b
}

// Records sets the content of lump id to the little endian encoding of v.
func (b *Builder) Records(id int, v any) *Builder {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
	b.lumps[id] = buf.Bytes()
	return b
}

// Directory overrides the directory entry of lump id.
func (b *Builder) Directory(id int, offset, size uint32) *Builder {
	b.dir[id] = [2]uint32{offset, size}
	return b
}

func (b *Builder) Bytes() []byte {
	var data bytes.Buffer
	var dir [LumpCount][2]uint32
	for i, l := range b.lumps {
		dir[i] = [2]uint32{uint32(HeaderSize + data.Len()), uint32(len(l))}
		data.Write(l)
	}
	for i, d := range b.dir {
		dir[i] = d
	}
	var out bytes.Buffer
	out.Write(b.Magic[:])
	binary.Write(&out, binary.LittleEndian, b.Version)
	binary.Write(&out, binary.LittleEndian, dir)
	out.Write(data.Bytes())
	return out.Bytes()
}

const WorldspawnText = "{\n\"classname\" \"worldspawn\"\n\"message\" \"test\"\n}\n"

// Sample returns a small level: a quad drawn as polygon with six mesh vertices,
// a patch without mesh vertices, one submodel containing both, a texture, a
// lightmap and worldspawn entity text.
func Sample() *Builder {
	b := New()
	verts := []Vertex{
		{Position: [3]float32{-64, -64, 0}, Normal: [3]float32{0, 0, 1}, Color: [4]uint8{255, 255, 255, 255}},
		{Position: [3]float32{64, -64, 0}, TexCoord: [2]float32{1, 0}, Normal: [3]float32{0, 0, 1}, Color: [4]uint8{255, 0, 0, 255}},
		{Position: [3]float32{64, 64, 0}, TexCoord: [2]float32{1, 1}, Normal: [3]float32{0, 0, 1}, Color: [4]uint8{0, 255, 0, 255}},
		{Position: [3]float32{-64, 64, 8}, TexCoord: [2]float32{0, 1}, Normal: [3]float32{0, 0, 1}, Color: [4]uint8{0, 0, 255, 255}},
	}
	faces := []Face{
		{TextureID: 0, EffectID: -1, Type: 1, FirstVertex: 0, VertexCount: 4,
			FirstMeshVertex: 0, MeshVertexCount: 6, LightmapID: 0,
			LightmapSize: [2]int32{2, 2}, Normal: [3]float32{0, 0, 1}},
		{TextureID: 0, EffectID: -1, Type: 2, FirstVertex: 0, VertexCount: 4,
			LightmapID: -1, Normal: [3]float32{0, 0, 1}, PatchSize: [2]int32{2, 2}},
	}
	lightmap := make([]byte, 128*128*3)
	for i := range lightmap {
		lightmap[i] = byte(i % 251)
	}
	b.Raw(Entities, []byte(WorldspawnText))
	b.Records(Textures, []Texture{{Name: Name64("textures/base_floor/concrete"), SurfaceFlags: 0, ContentFlags: 1}})
	b.Records(Planes, []Plane{{Normal: [3]float32{0, 0, 1}, Dist: 0}, {Normal: [3]float32{0.6, -0.8, 0}, Dist: 16}})
	b.Records(Leafs, []Leaf{{Cluster: 0, Mins: [3]int32{-64, -64, 0}, Maxs: [3]int32{64, 64, 8},
		FirstLeafFace: 0, LeafFaceCount: 2, FirstLeafBrush: 0, LeafBrushCount: 1}})
	b.Records(LeafFaces, []int32{0, 1})
	b.Records(LeafBrushes, []int32{0})
	b.Records(Models, []Model{{Mins: [3]float32{-64, -64, 0}, Maxs: [3]float32{64, 64, 8},
		FirstFace: 0, FaceCount: 2, FirstBrush: 0, BrushCount: 1}})
	b.Records(Brushes, [][3]int32{{0, 1, 0}})
	b.Records(BrushSides, [][2]int32{{0, 0}})
	b.Records(Vertexes, verts)
	b.Records(MeshVerts, []int32{0, 1, 2, 0, 2, 3})
	b.Records(Faces, faces)
	b.Raw(Lightmaps, lightmap)
	b.Records(LightVols, [][8]uint8{{10, 20, 30, 40, 50, 60, 7, 8}})
	b.Records(VisData, []int32{1, 1})
	b.lumps[VisData] = append(b.lumps[VisData], 0x01)
	return b
}
