// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// On-disk records of the IBSP format. All values are little endian and every
// struct here has a fixed binary.Size, which is the record width of its lump.

var magic = [4]byte{'I', 'B', 'S', 'P'}

const (
	// versions written by the Quake III and Return to Castle Wolfenstein compilers
	VersionQuake3 = 46
	VersionRTCW   = 47
)

// LumpID is the position of a lump inside the directory.
type LumpID int

const (
	LumpEntities LumpID = iota
	LumpTextures
	LumpPlanes
	LumpNodes
	LumpLeafs
	LumpLeafFaces
	LumpLeafBrushes
	LumpModels
	LumpBrushes
	LumpBrushSides
	LumpVertexes
	LumpMeshVerts
	LumpEffects
	LumpFaces
	LumpLightmaps
	LumpLightVols
	LumpVisData
	LumpCount // number of directory entries
)

var lumpNames = [LumpCount]string{
	"entities", "textures", "planes", "nodes", "leafs", "leaffaces",
	"leafbrushes", "models", "brushes", "brushsides", "vertexes",
	"meshverts", "effects", "faces", "lightmaps", "lightvols", "visdata",
}

func (l LumpID) String() string {
	if l < 0 || l >= LumpCount {
		return "unknown"
	}
	return lumpNames[l]
}

// Lump is a directory entry describing the byte range of one lump.
type Lump struct {
	Offset uint32
	Size   uint32
}

type header struct {
	Magic   [4]byte
	Version int32
}

const (
	headerSize    = 8
	directorySize = 8 * int(LumpCount)
)

type texture struct {
	Name         [64]byte
	SurfaceFlags int32
	ContentFlags int32
}

type plane struct {
	Normal   [3]float32
	Distance float32
}

type node struct {
	PlaneID  int32
	Children [2]int32 // negative values are -(leaf+1)
	Mins     [3]int32
	Maxs     [3]int32
}

type leaf struct {
	Cluster        int32 // -1 for leafs outside of the map
	Area           int32
	Mins           [3]int32
	Maxs           [3]int32
	FirstLeafFace  int32
	LeafFaceCount  int32
	FirstLeafBrush int32
	LeafBrushCount int32
}

// Model, either the world or a brush entity inside it
type model struct {
	Mins       [3]float32
	Maxs       [3]float32
	FirstFace  int32
	FaceCount  int32
	FirstBrush int32
	BrushCount int32
}

type brush struct {
	FirstSide int32
	SideCount int32
	TextureID int32
}

type brushSide struct {
	PlaneID   int32
	TextureID int32
}

type vertex struct {
	Position      [3]float32
	TexCoord      [2]float32
	LightmapCoord [2]float32
	Normal        [3]float32
	Color         [4]uint8
}

type effect struct {
	Name    [64]byte
	BrushID int32
	Unknown int32 // always 5, except in q3dm8 where it is -1
}

type face struct {
	TextureID       int32
	EffectID        int32 // -1 without effect
	Type            int32
	FirstVertex     int32
	VertexCount     int32
	FirstMeshVertex int32
	MeshVertexCount int32
	LightmapID      int32 // -1 without lightmap
	LightmapStart   [2]int32
	LightmapSize    [2]int32
	LightmapOrigin  [3]float32
	LightmapVecs    [2][3]float32 // S and T unit vectors in world space
	Normal          [3]float32
	PatchSize       [2]int32
}

const (
	LightmapWidth  = 128
	LightmapHeight = 128
)

type lightmap struct {
	Data [LightmapWidth * LightmapHeight * 3]byte
}

type lightVol struct {
	Ambient     [3]uint8
	Directional [3]uint8
	Dir         [2]uint8 // phi, theta
}

type visHeader struct {
	VectorCount int32
	VectorSize  int32
}
