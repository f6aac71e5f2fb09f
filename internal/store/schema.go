package store

// schemaVersionV1 is the initial schema.
const schemaVersionV1 = 1

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV1

// schemaV1 holds launch records plus a small session key/value table.
// pids and endpoints are JSON columns; the rows are read whole, never
// queried by their contents.
var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS launches (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	pids            TEXT NOT NULL DEFAULT '[]',
	endpoints       TEXT NOT NULL DEFAULT '[]',
	base_dir        TEXT,
	descriptor_path TEXT,
	started_at      TEXT NOT NULL,
	torn_down_at    TEXT
);

CREATE INDEX IF NOT EXISTS idx_launches_torn_down ON launches(torn_down_at);

CREATE TABLE IF NOT EXISTS session (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`
