// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"
)

func (l *Level) faces(indices []int) ([]*Face, error) {
	fs := make([]*Face, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(l.Faces) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "face %d of %d", idx, len(l.Faces))
		}
		fs[i] = &l.Faces[idx]
	}
	return fs, nil
}

// CountVertices returns the number of mesh vertices the polygon and mesh faces
// out of indices reference. Other face types do not count.
func (l *Level) CountVertices(indices []int) (int, error) {
	fs, err := l.faces(indices)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range fs {
		if f.HasTriangles() {
			n += f.MeshVertexCount
		}
	}
	return n, nil
}

// CountFaces returns the number of faces out of indices with mesh vertices.
func (l *Level) CountFaces(indices []int) (int, error) {
	fs, err := l.faces(indices)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range fs {
		if f.MeshVertexCount > 0 {
			n++
		}
	}
	return n, nil
}

// CountTriangles returns the number of triangles of the faces out of indices.
// Unlike CountVertices it does not look at the face type, every face
// contributes MeshVertexCount/3.
func (l *Level) CountTriangles(indices []int) (int, error) {
	fs, err := l.faces(indices)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range fs {
		n += f.MeshVertexCount / 3
	}
	return n, nil
}

// Submodel returns submodel i, 0 is the world.
func (l *Level) Submodel(i int) (*Submodel, error) {
	if i < 0 || i >= len(l.Submodels) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "model %d of %d", i, len(l.Submodels))
	}
	return &l.Submodels[i], nil
}

// FaceIndices returns the indices of the faces of submodel model in order.
// The face range is checked against the face table before anything is
// allocated.
func (l *Level) FaceIndices(model int) ([]int, error) {
	m, err := l.Submodel(model)
	if err != nil {
		return nil, err
	}
	first, count := m.FirstFace, m.FaceCount
	if first < 0 || count < 0 || first+count > len(l.Faces) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "model %d faces %d+%d of %d", model, first, count, len(l.Faces))
	}
	r := make([]int, count)
	for i := range r {
		r[i] = first + i
	}
	return r, nil
}

// Triangles returns the vertex indices of the triangles of face i. Only
// polygon and mesh faces have triangles.
func (l *Level) Triangles(i int) ([]int, error) {
	fs, err := l.faces([]int{i})
	if err != nil {
		return nil, err
	}
	f := fs[0]
	if !f.HasTriangles() {
		return nil, nil
	}
	first, count := f.FirstMeshVertex, f.MeshVertexCount
	if first < 0 || count < 0 || first+count > len(l.MeshVertices) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "mesh vertices %d+%d of %d", first, count, len(l.MeshVertices))
	}
	r := make([]int, count)
	for j, m := range l.MeshVertices[first : first+count] {
		v := f.FirstVertex + m
		if v < 0 || v >= len(l.Vertices) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "vertex %d of %d", v, len(l.Vertices))
		}
		r[j] = v
	}
	return r, nil
}
