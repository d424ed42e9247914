// SPDX-License-Identifier: GPL-2.0-or-later

package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS levels (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		version INTEGER NOT NULL,
		file_hash TEXT NOT NULL,
		lightmaps INTEGER NOT NULL,
		entity_text TEXT NOT NULL,
		exported_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS levels_name ON levels(name)`,
	`CREATE TABLE IF NOT EXISTS lumps (
		level_id TEXT NOT NULL REFERENCES levels(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		name TEXT NOT NULL,
		file_offset INTEGER NOT NULL,
		size INTEGER NOT NULL,
		PRIMARY KEY (level_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS textures (
		level_id TEXT NOT NULL REFERENCES levels(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		name TEXT NOT NULL,
		surface_flags INTEGER NOT NULL,
		content_flags INTEGER NOT NULL,
		PRIMARY KEY (level_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS submodels (
		level_id TEXT NOT NULL REFERENCES levels(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		min_x REAL, min_y REAL, min_z REAL,
		max_x REAL, max_y REAL, max_z REAL,
		first_face INTEGER NOT NULL,
		face_count INTEGER NOT NULL,
		first_brush INTEGER NOT NULL,
		brush_count INTEGER NOT NULL,
		vertices INTEGER,
		faces INTEGER,
		triangles INTEGER,
		PRIMARY KEY (level_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS faces (
		level_id TEXT NOT NULL REFERENCES levels(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		type TEXT NOT NULL,
		texture_id INTEGER NOT NULL,
		effect_id INTEGER NOT NULL,
		first_vertex INTEGER NOT NULL,
		vertex_count INTEGER NOT NULL,
		first_mesh_vertex INTEGER NOT NULL,
		mesh_vertex_count INTEGER NOT NULL,
		lightmap_id INTEGER NOT NULL,
		normal_x REAL, normal_y REAL, normal_z REAL,
		PRIMARY KEY (level_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS vertices (
		level_id TEXT NOT NULL REFERENCES levels(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		x REAL, y REAL, z REAL,
		s REAL, t REAL,
		lightmap_s REAL, lightmap_t REAL,
		normal_x REAL, normal_y REAL, normal_z REAL,
		color INTEGER,
		PRIMARY KEY (level_id, idx)
	)`,
}
