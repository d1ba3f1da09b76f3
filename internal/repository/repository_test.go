package repository

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// The repositories stick to portable SQL, so the tests run them against
// an in-memory SQLite database with the same table shapes as the MySQL
// schema.

const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'MEMBER',
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE refresh_tokens (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	token_hash TEXT NOT NULL UNIQUE,
	expires_at DATETIME NOT NULL,
	revoked_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE genres (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL
);
CREATE TABLE streaming_services (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	logo_url TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE moods (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL
);
CREATE TABLE mood_genres (
	mood_id INTEGER NOT NULL,
	genre_id INTEGER NOT NULL,
	PRIMARY KEY (mood_id, genre_id)
);
CREATE TABLE content (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	external_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	release_year INTEGER,
	content_type TEXT NOT NULL,
	runtime_minutes INTEGER,
	season_count INTEGER,
	critic_rating REAL NOT NULL DEFAULT 0,
	audience_rating INTEGER NOT NULL DEFAULT 0,
	parental_rating TEXT NOT NULL DEFAULT '',
	synopsis TEXT NOT NULL DEFAULT '',
	tagline TEXT NOT NULL DEFAULT '',
	director TEXT NOT NULL DEFAULT '',
	cast_list TEXT NOT NULL DEFAULT ''
);
CREATE TABLE content_genres (
	content_id INTEGER NOT NULL,
	genre_id INTEGER NOT NULL,
	PRIMARY KEY (content_id, genre_id)
);
CREATE TABLE content_availability (
	content_id INTEGER NOT NULL,
	service_id INTEGER NOT NULL,
	region_code TEXT NOT NULL,
	watch_link TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (content_id, service_id, region_code)
);
CREATE TABLE user_preferences (
	user_id INTEGER PRIMARY KEY,
	mood_id INTEGER,
	min_release_year INTEGER NOT NULL DEFAULT 1900,
	max_release_year INTEGER NOT NULL DEFAULT 0,
	preferred_duration TEXT NOT NULL DEFAULT 'any',
	min_rating REAL NOT NULL DEFAULT 0,
	preferred_content_type TEXT NOT NULL DEFAULT 'any',
	parental_ratings TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE preference_genres (
	user_id INTEGER NOT NULL,
	genre_id INTEGER NOT NULL,
	excluded INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, genre_id, excluded)
);
CREATE TABLE preference_services (
	user_id INTEGER NOT NULL,
	service_id INTEGER NOT NULL,
	excluded INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, service_id, excluded)
);
CREATE TABLE watchlist_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	content_id INTEGER NOT NULL,
	added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (user_id, content_id)
);
`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO users (uid, email, password_hash) VALUES (?,?,?)",
		"user-"+email, email, "x")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

func seedGenre(t *testing.T, db *sql.DB, uid, name string) uint64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO genres (uid, name) VALUES (?,?)", uid, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

func seedService(t *testing.T, db *sql.DB, uid, name string) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO streaming_services (uid, name, logo_url) VALUES (?,?,?)",
		uid, name, "/logos/"+uid+".svg")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

func seedContent(t *testing.T, db *sql.DB, uid, title, kind string) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO content (uid, title, release_year, content_type, audience_rating) VALUES (?,?,?,?,?)",
		uid, title, 2020, kind, 80)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}
