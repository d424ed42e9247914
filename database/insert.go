// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"q3level/bsp"
)

// InsertLevel stores l together with the hash of its file in a single
// transaction and returns the id of the new levels row.
func (d *Database) InsertLevel(ctx context.Context, l *bsp.Level, hash uint64) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating level id: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ins := &inserter{ctx: ctx, tx: tx, id: id.String()}
	steps := []struct {
		name string
		fn   func(*bsp.Level) error
	}{
		{"level", func(l *bsp.Level) error { return ins.level(l, hash) }},
		{"lumps", ins.lumps},
		{"textures", ins.textures},
		{"submodels", ins.submodels},
		{"faces", ins.faces},
		{"vertices", ins.vertices},
	}
	for _, s := range steps {
		if err := s.fn(l); err != nil {
			return "", fmt.Errorf("inserting %s of %s: %w", s.name, l.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return ins.id, nil
}

type inserter struct {
	ctx context.Context
	tx  *sql.Tx
	id  string
}

// batch prepares query once and runs it for i in [0, n).
func (in *inserter) batch(query string, n int, args func(i int) []any) error {
	stmt, err := in.tx.PrepareContext(in.ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(in.ctx, append([]any{in.id, i}, args(i)...)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

func (in *inserter) level(l *bsp.Level, hash uint64) error {
	_, err := in.tx.ExecContext(in.ctx,
		`INSERT INTO levels (id, name, version, file_hash, lightmaps, entity_text, exported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.id, l.Name(), l.Version, fmt.Sprintf("%016x", hash), len(l.Lightmaps),
		string(l.EntityText), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (in *inserter) lumps(l *bsp.Level) error {
	return in.batch(`INSERT INTO lumps (level_id, idx, name, file_offset, size) VALUES (?, ?, ?, ?, ?)`,
		len(l.Lumps), func(i int) []any {
			lp := l.Lumps[i]
			return []any{bsp.LumpID(i).String(), lp.Offset, lp.Size}
		})
}

func (in *inserter) textures(l *bsp.Level) error {
	return in.batch(`INSERT INTO textures (level_id, idx, name, surface_flags, content_flags)
		VALUES (?, ?, ?, ?, ?)`,
		len(l.Textures), func(i int) []any {
			t := &l.Textures[i]
			return []any{t.Name(), t.SurfaceFlags, t.ContentFlags}
		})
}

func (in *inserter) submodels(l *bsp.Level) error {
	return in.batch(`INSERT INTO submodels (level_id, idx,
		min_x, min_y, min_z, max_x, max_y, max_z,
		first_face, face_count, first_brush, brush_count,
		vertices, faces, triangles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(l.Submodels), func(i int) []any {
			m := &l.Submodels[i]
			var vc, fc, tc sql.NullInt64
			if idx, err := l.FaceIndices(i); err == nil {
				vc = count(l.CountVertices(idx))
				fc = count(l.CountFaces(idx))
				tc = count(l.CountTriangles(idx))
			}
			return []any{
				m.Mins.X, m.Mins.Y, m.Mins.Z, m.Maxs.X, m.Maxs.Y, m.Maxs.Z,
				m.FirstFace, m.FaceCount, m.FirstBrush, m.BrushCount,
				vc, fc, tc,
			}
		})
}

// count turns a count query into a nullable column. Submodels with a face
// range outside the face table are stored without counts.
func count(n int, err error) sql.NullInt64 {
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}

func (in *inserter) faces(l *bsp.Level) error {
	return in.batch(`INSERT INTO faces (level_id, idx, type, texture_id, effect_id,
		first_vertex, vertex_count, first_mesh_vertex, mesh_vertex_count, lightmap_id,
		normal_x, normal_y, normal_z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(l.Faces), func(i int) []any {
			f := &l.Faces[i]
			return []any{
				f.Type.String(), f.TextureID, f.EffectID,
				f.FirstVertex, f.VertexCount, f.FirstMeshVertex, f.MeshVertexCount, f.LightmapID,
				f.Normal.X, f.Normal.Y, f.Normal.Z,
			}
		})
}

func (in *inserter) vertices(l *bsp.Level) error {
	return in.batch(`INSERT INTO vertices (level_id, idx, x, y, z, s, t, lightmap_s, lightmap_t,
		normal_x, normal_y, normal_z, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(l.Vertices), func(i int) []any {
			v := &l.Vertices[i]
			c := uint32(v.Color[0])<<24 | uint32(v.Color[1])<<16 | uint32(v.Color[2])<<8 | uint32(v.Color[3])
			return []any{
				v.Position.X, v.Position.Y, v.Position.Z,
				v.TexCoord[0], v.TexCoord[1], v.LightmapCoord[0], v.LightmapCoord[1],
				v.Normal.X, v.Normal.Y, v.Normal.Z, int64(c),
			}
		})
}
