package recommend

import (
	"context"
	"database/sql"
)

// Store is the slice of *sql.DB the searcher needs. Taking an interface
// keeps the query logic testable against any database/sql driver.
type Store interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// GenreRef is one genre attached to a returned content item.
type GenreRef struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// ServiceRef is one place a returned content item can be watched.
type ServiceRef struct {
	ServiceUID string `json:"service_uid"`
	Name       string `json:"name"`
	LogoURL    string `json:"logo_url"`
	WatchLink  string `json:"watch_link"`
}

// ContentItem is a fully assembled recommendation row: the content
// columns plus its aggregated genres and availability.
type ContentItem struct {
	UID            string       `json:"uid"`
	ExternalID     string       `json:"external_id"`
	Title          string       `json:"title"`
	ReleaseYear    *int         `json:"release_year"`
	ContentType    string       `json:"content_type"`
	RuntimeMinutes *int         `json:"runtime_minutes,omitempty"`
	SeasonCount    *int         `json:"season_count,omitempty"`
	CriticRating   float64      `json:"critic_rating"`
	AudienceRating int          `json:"audience_rating"`
	ParentalRating string       `json:"parental_rating"`
	Synopsis       string       `json:"synopsis"`
	Tagline        string       `json:"tagline"`
	Director       string       `json:"director"`
	CastList       string       `json:"cast_list"`
	Genres         []GenreRef   `json:"genres"`
	Services       []ServiceRef `json:"available_on_services"`

	id uint64 // internal row id, used for batch loading
}

// Result is one page of recommendations. Total counts every distinct
// content row matching the filter, ignoring pagination, so
// ceil(Total/PageSize) is the page count. Zero matches is a valid
// Result, not an error.
type Result struct {
	Items    []ContentItem
	Total    int64
	Page     int
	PageSize int
}

// Searcher executes recommendation filters against the content store.
type Searcher struct {
	db Store
	// txOpts holds the transaction options for the count+page pair.
	// Nil means driver defaults; NewSearcher requests a read-only
	// transaction so both queries see one snapshot.
	txOpts *sql.TxOptions
}

func NewSearcher(db Store) *Searcher {
	return &Searcher{db: db, txOpts: &sql.TxOptions{ReadOnly: true}}
}

// NewSearcherWithTxOptions is like NewSearcher but with explicit
// transaction options. Nil means driver defaults, which some drivers
// need because they reject read-only transactions.
func NewSearcherWithTxOptions(db Store, opts *sql.TxOptions) *Searcher {
	return &Searcher{db: db, txOpts: opts}
}

// Search runs the count query and the page query for f inside a single
// read-only transaction, so both see the same snapshot and pagination
// metadata always matches the rows that can actually be paged. Any
// storage failure aborts the whole operation with a *StorageError; no
// partial results are returned.
func (s *Searcher) Search(ctx context.Context, f Filter) (Result, error) {
	cond, args := buildWhere(f)

	tx, err := s.db.BeginTx(ctx, s.txOpts)
	if err != nil {
		return Result{}, &StorageError{Op: "begin tx", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	res := Result{Items: []ContentItem{}, Page: f.Page, PageSize: f.PageSize}

	if err := tx.QueryRowContext(ctx, countSQL+cond, args...).Scan(&res.Total); err != nil {
		return Result{}, &StorageError{Op: "count query", Err: err}
	}
	if res.Total == 0 {
		return res, nil
	}

	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize
	pageArgs := append(append([]any{}, args...), limit, offset)

	rows, err := tx.QueryContext(ctx, pageSQL+cond+pageOrderSQL, pageArgs...)
	if err != nil {
		return Result{}, &StorageError{Op: "page query", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it      ContentItem
			year    sql.NullInt64
			runtime sql.NullInt64
			seasons sql.NullInt64
		)
		if err := rows.Scan(
			&it.id,
			&it.UID,
			&it.ExternalID,
			&it.Title,
			&year,
			&it.ContentType,
			&runtime,
			&seasons,
			&it.CriticRating,
			&it.AudienceRating,
			&it.ParentalRating,
			&it.Synopsis,
			&it.Tagline,
			&it.Director,
			&it.CastList,
		); err != nil {
			return Result{}, &StorageError{Op: "scan page row", Err: err}
		}
		if year.Valid {
			y := int(year.Int64)
			it.ReleaseYear = &y
		}
		if runtime.Valid {
			m := int(runtime.Int64)
			it.RuntimeMinutes = &m
		}
		if seasons.Valid {
			n := int(seasons.Int64)
			it.SeasonCount = &n
		}
		it.Genres = []GenreRef{}
		it.Services = []ServiceRef{}
		res.Items = append(res.Items, it)
	}
	if err := rows.Err(); err != nil {
		return Result{}, &StorageError{Op: "page rows", Err: err}
	}

	if err := s.attachRelations(ctx, tx, res.Items); err != nil {
		return Result{}, err
	}
	return res, nil
}

// attachRelations batch-loads the distinct genres and distinct
// (service, watch link) pairs for the page's content ids within the
// same transaction as the page query.
func (s *Searcher) attachRelations(ctx context.Context, tx *sql.Tx, items []ContentItem) error {
	if len(items) == 0 {
		return nil
	}
	byID := make(map[uint64]*ContentItem, len(items))
	ids := make([]any, 0, len(items))
	for i := range items {
		byID[items[i].id] = &items[i]
		ids = append(ids, items[i].id)
	}
	in := placeholders(len(ids))

	genreSQL := `SELECT cg.content_id, g.uid, g.name
		FROM content_genres cg
		JOIN genres g ON g.id = cg.genre_id
		WHERE cg.content_id IN (` + in + `)
		ORDER BY cg.content_id, g.name`
	rows, err := tx.QueryContext(ctx, genreSQL, ids...)
	if err != nil {
		return &StorageError{Op: "genre query", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid uint64
			ref GenreRef
		)
		if err := rows.Scan(&cid, &ref.UID, &ref.Name); err != nil {
			return &StorageError{Op: "scan genre row", Err: err}
		}
		if it, ok := byID[cid]; ok {
			it.Genres = append(it.Genres, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return &StorageError{Op: "genre rows", Err: err}
	}

	svcSQL := `SELECT DISTINCT ca.content_id, s.uid, s.name, s.logo_url, ca.watch_link
		FROM content_availability ca
		JOIN streaming_services s ON s.id = ca.service_id
		WHERE ca.content_id IN (` + in + `)
		ORDER BY ca.content_id, s.name`
	srows, err := tx.QueryContext(ctx, svcSQL, ids...)
	if err != nil {
		return &StorageError{Op: "availability query", Err: err}
	}
	defer srows.Close()
	for srows.Next() {
		var (
			cid uint64
			ref ServiceRef
		)
		if err := srows.Scan(&cid, &ref.ServiceUID, &ref.Name, &ref.LogoURL, &ref.WatchLink); err != nil {
			return &StorageError{Op: "scan availability row", Err: err}
		}
		if it, ok := byID[cid]; ok {
			it.Services = append(it.Services, ref)
		}
	}
	if err := srows.Err(); err != nil {
		return &StorageError{Op: "availability rows", Err: err}
	}
	return nil
}
