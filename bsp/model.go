// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"fmt"
	"image"

	"q3level/math/vec"
)

type FaceType int32

const (
	FacePolygon FaceType = iota + 1
	FacePatch
	FaceMesh // triangle soup
	FaceBillboard
)

func (t FaceType) String() string {
	switch t {
	case FacePolygon:
		return "polygon"
	case FacePatch:
		return "patch"
	case FaceMesh:
		return "mesh"
	case FaceBillboard:
		return "billboard"
	}
	return fmt.Sprintf("facetype(%d)", int32(t))
}

type Vertex struct {
	Position      vec.Vec3
	TexCoord      [2]float32
	LightmapCoord [2]float32
	Normal        vec.Vec3
	Color         [4]uint8
}

// Face is a drawable surface. Polygons and meshes draw the triangles listed in
// MeshVertices[FirstMeshVertex:FirstMeshVertex+MeshVertexCount], each entry
// relative to FirstVertex. Patches are a PatchSize grid of control points in
// Vertices[FirstVertex:FirstVertex+VertexCount].
type Face struct {
	TextureID       int
	EffectID        int
	Type            FaceType
	FirstVertex     int
	VertexCount     int
	FirstMeshVertex int
	MeshVertexCount int
	LightmapID      int
	LightmapStart   [2]int
	LightmapSize    [2]int
	LightmapOrigin  vec.Vec3
	LightmapVecs    [2]vec.Vec3
	Normal          vec.Vec3
	PatchSize       [2]int
}

// HasTriangles reports whether the mesh vertex range of f describes triangles.
func (f *Face) HasTriangles() bool {
	return f.Type == FacePolygon || f.Type == FaceMesh
}

// Submodel, model 0 is the world, the others belong to brush entities
type Submodel struct {
	Mins       vec.Vec3
	Maxs       vec.Vec3
	FirstFace  int
	FaceCount  int
	FirstBrush int
	BrushCount int
}

type Texture struct {
	name         string
	SurfaceFlags int32
	ContentFlags int32
}

func (t *Texture) Name() string {
	return t.name
}

type Plane struct {
	Normal   vec.Vec3
	Dist     float32
	Type     byte // 0,1,2 axial in X,Y,Z, 3 not axial
	SignBits byte
}

type Node struct {
	PlaneID  int
	Children [2]int // negative values are -(leaf+1)
	Mins     vec.Vec3
	Maxs     vec.Vec3
}

type Leaf struct {
	Cluster        int
	Area           int
	Mins           vec.Vec3
	Maxs           vec.Vec3
	FirstLeafFace  int
	LeafFaceCount  int
	FirstLeafBrush int
	LeafBrushCount int
}

type Brush struct {
	FirstSide int
	SideCount int
	TextureID int
}

type BrushSide struct {
	PlaneID   int
	TextureID int
}

type Effect struct {
	name    string
	BrushID int
}

func (e *Effect) Name() string {
	return e.name
}

// Lightmap is a LightmapWidth x LightmapHeight RGB image.
type Lightmap [LightmapWidth * LightmapHeight * 3]byte

// Image returns a copy of the lightmap as opaque NRGBA image.
func (l *Lightmap) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, LightmapWidth, LightmapHeight))
	for p := 0; p < LightmapWidth*LightmapHeight; p++ {
		img.Pix[p*4+0] = l[p*3+0]
		img.Pix[p*4+1] = l[p*3+1]
		img.Pix[p*4+2] = l[p*3+2]
		img.Pix[p*4+3] = 255
	}
	return img
}

type LightVolume struct {
	Ambient     [3]uint8
	Directional [3]uint8
	Dir         [2]uint8 // phi, theta
}

// Vis holds one bit vector per cluster telling which clusters are visible from it.
type Vis struct {
	VectorCount int
	VectorSize  int
	Data        []byte
}

// ClusterVisible reports whether cluster to can be seen from cluster from.
// Without vis data or outside of the map everything is visible.
func (v *Vis) ClusterVisible(from, to int) bool {
	if len(v.Data) == 0 || from < 0 || to < 0 {
		return true
	}
	if from >= v.VectorCount || to/8 >= v.VectorSize {
		return false
	}
	return v.Data[from*v.VectorSize+to/8]&(1<<(to%8)) != 0
}

// Level is a decoded IBSP file. It is built completely inside Decode and must
// be treated as read only afterwards, which makes it safe for concurrent use.
type Level struct {
	name    string
	Version int32

	// The complete directory as read from the file.
	Lumps []Lump

	Vertices     []Vertex
	MeshVertices []int
	Faces        []Face
	Submodels    []Submodel
	Textures     []Texture
	Lightmaps    []Lightmap
	EntityText   []byte

	Planes       []Plane
	Nodes        []Node
	Leafs        []Leaf
	LeafFaces    []int
	LeafBrushes  []int
	Brushes      []Brush
	BrushSides   []BrushSide
	Effects      []Effect
	LightVolumes []LightVolume
	Vis          Vis
}

func (l *Level) Name() string {
	return l.name
}

// Bounds returns the box enclosing all submodels.
func (l *Level) Bounds() (vec.Vec3, vec.Vec3) {
	if len(l.Submodels) == 0 {
		return vec.Vec3{}, vec.Vec3{}
	}
	mins, maxs := l.Submodels[0].Mins, l.Submodels[0].Maxs
	for _, m := range l.Submodels[1:] {
		mins, maxs = vec.Union(mins, maxs, m.Mins, m.Maxs)
	}
	return mins, maxs
}

func cString(b []byte) string {
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}
	return string(b)
}
