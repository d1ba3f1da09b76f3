package handler

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// The handlers only depend on database/sql through the repositories, so
// the tests drive them end to end over an in-memory SQLite database.

const handlerTestSchema = `
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

func openHandlerDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(handlerTestSchema)
	require.NoError(t, err)
	return db
}

// doJSON runs one request through a fresh echo context and returns the
// recorder holding the response.
func doJSON(e *echo.Echo, method, path, body string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

// doAuthJSON is doJSON with the user id JWTAuth would have stored in
// the context, plus optional path params.
func doAuthJSON(e *echo.Echo, method, path, body string, userID uint64, h echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(query, args...)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
