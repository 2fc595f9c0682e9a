// Package postgres implements store.Store on PostgreSQL via the pgx stdlib
// driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yumelog/yumelog/internal/model"
	"github.com/yumelog/yumelog/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB wires a store over an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Dreams() store.Dreams { return &dreams{db: s.db} }
func (s *pgStore) Tags() store.Tags     { return &tags{db: s.db} }
func (s *pgStore) Stats() store.Stats   { return &stats{db: s.db} }

func (s *pgStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *pgStore) Close() error                         { return s.db.Close() }

// --- Dreams ---

type dreams struct{ db *sql.DB }

const dreamColumns = `dream_id, date, title, body, mood, vividness, sound, fatigue,
	sleep_start, sleep_end, sleep_minutes, image_path, created_at, updated_at`

func (r *dreams) Create(ctx context.Context, d *model.Dream) (*model.Dream, error) {
	now := time.Now().UTC()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	var id int64
	err = tx.QueryRowContext(ctx, `INSERT INTO dreams
		(date, title, body, mood, vividness, sound, fatigue, sleep_start, sleep_end, sleep_minutes, image_path, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING dream_id`,
		d.Date, d.Title, d.Body, d.Mood, d.Vividness, d.Sound, d.Fatigue,
		d.SleepStart, d.SleepEnd, d.SleepMinutes, d.ImagePath, now, now).Scan(&id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := replaceTags(ctx, tx, id, d.Tags); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	out := *d
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (r *dreams) Get(ctx context.Context, id int64) (*model.Dream, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+dreamColumns+` FROM dreams WHERE dream_id = $1`, id)
	d, err := scanDream(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.Tags, err = loadTags(ctx, r.db, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *dreams) Update(ctx context.Context, d *model.Dream) (*model.Dream, error) {
	now := time.Now().UTC()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, `UPDATE dreams SET
		date = $1, title = $2, body = $3, mood = $4, vividness = $5, sound = $6, fatigue = $7,
		sleep_start = $8, sleep_end = $9, sleep_minutes = $10, image_path = $11, updated_at = $12
		WHERE dream_id = $13`,
		d.Date, d.Title, d.Body, d.Mood, d.Vividness, d.Sound, d.Fatigue,
		d.SleepStart, d.SleepEnd, d.SleepMinutes, d.ImagePath, now, d.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return nil, model.ErrNotFound
	}
	if err := replaceTags(ctx, tx, d.ID, d.Tags); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.Get(ctx, d.ID)
}

func (r *dreams) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dreams WHERE dream_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *dreams) Search(ctx context.Context, req model.SearchRequest) ([]*model.Dream, error) {
	q := `SELECT ` + dreamColumns + ` FROM dreams`
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.Query != "" {
		like := "%" + req.Query + "%"
		conds = append(conds, fmt.Sprintf(`(title ILIKE %s OR body ILIKE %s)`, arg(like), arg(like)))
	}
	if req.From != "" {
		conds = append(conds, `date >= `+arg(req.From))
	}
	if req.To != "" {
		conds = append(conds, `date <= `+arg(req.To))
	}
	if len(req.TagTerms) > 0 {
		terms := make([]string, 0, len(req.TagTerms))
		for _, term := range req.TagTerms {
			terms = append(terms, fmt.Sprintf(`strpos(t.name, %s) > 0`, arg(term)))
		}
		conds = append(conds, `EXISTS (SELECT 1 FROM dream_tags dt
			JOIN tags t ON t.tag_id = dt.tag_id
			WHERE dt.dream_id = dreams.dream_id AND (`+strings.Join(terms, " OR ")+`))`)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY date DESC, dream_id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Dream
	for rows.Next() {
		d, err := scanDream(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, d := range out {
		if d.Tags, err = loadTags(ctx, r.db, d.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *dreams) Month(ctx context.Context, from, to string) ([]*model.Dream, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+dreamColumns+` FROM dreams
		WHERE date BETWEEN $1 AND $2 ORDER BY date ASC, dream_id ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Dream
	for rows.Next() {
		d, err := scanDream(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// --- Tags ---

type tags struct{ db *sql.DB }

func (r *tags) Index(ctx context.Context) (model.TagSet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT t.category, t.name
		FROM tags t JOIN dream_tags dt ON dt.tag_id = t.tag_id
		ORDER BY t.category, t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := model.TagSet{}
	for rows.Next() {
		var category, name string
		if err := rows.Scan(&category, &name); err != nil {
			return nil, err
		}
		out[category] = append(out[category], name)
	}
	return out, rows.Err()
}

// --- Stats ---

type stats struct{ db *sql.DB }

func (r *stats) Averages(ctx context.Context, from, to string) (*model.Averages, error) {
	q := `SELECT AVG(mood), AVG(fatigue), AVG(sleep_minutes) FROM dreams`
	conds, args := dateRange(from, to, "date")
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	var mood, fatigue, sleep sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&mood, &fatigue, &sleep); err != nil {
		return nil, err
	}
	return &model.Averages{
		Mood:         nullableFloat(mood),
		Fatigue:      nullableFloat(fatigue),
		SleepMinutes: nullableFloat(sleep),
	}, nil
}

func (r *stats) TagCounts(ctx context.Context, from, to string) (map[string][]model.TagCount, error) {
	q := `SELECT t.category, t.name, COUNT(*) AS n
		FROM dream_tags dt
		JOIN tags t ON t.tag_id = dt.tag_id
		JOIN dreams d ON d.dream_id = dt.dream_id`
	conds, args := dateRange(from, to, "d.date")
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += ` GROUP BY t.category, t.name ORDER BY t.category, n DESC, t.name ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]model.TagCount{}
	for rows.Next() {
		var category, name string
		var n int
		if err := rows.Scan(&category, &name, &n); err != nil {
			return nil, err
		}
		if len(out[category]) < 10 {
			out[category] = append(out[category], model.TagCount{Name: name, Count: n})
		}
	}
	return out, rows.Err()
}

// --- helpers ---

func replaceTags(ctx context.Context, tx *sql.Tx, dreamID int64, ts model.TagSet) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM dream_tags WHERE dream_id = $1`, dreamID); err != nil {
		return err
	}
	position := 0
	for _, category := range model.TagCategories {
		for _, name := range ts[category] {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tags (category, name) VALUES ($1, $2) ON CONFLICT (category, name) DO NOTHING`,
				category, name); err != nil {
				return err
			}
			var tagID int64
			if err := tx.QueryRowContext(ctx,
				`SELECT tag_id FROM tags WHERE category = $1 AND name = $2`, category, name).Scan(&tagID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO dream_tags (dream_id, tag_id, position) VALUES ($1, $2, $3)`,
				dreamID, tagID, position); err != nil {
				return err
			}
			position++
		}
	}
	return nil
}

func loadTags(ctx context.Context, db *sql.DB, dreamID int64) (model.TagSet, error) {
	rows, err := db.QueryContext(ctx, `SELECT t.category, t.name
		FROM dream_tags dt JOIN tags t ON t.tag_id = dt.tag_id
		WHERE dt.dream_id = $1 ORDER BY dt.position`, dreamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := model.TagSet{}
	for rows.Next() {
		var category, name string
		if err := rows.Scan(&category, &name); err != nil {
			return nil, err
		}
		out[category] = append(out[category], name)
	}
	return out, rows.Err()
}

func scanDream(scan func(dest ...interface{}) error) (*model.Dream, error) {
	var d model.Dream
	err := scan(&d.ID, &d.Date, &d.Title, &d.Body, &d.Mood, &d.Vividness, &d.Sound, &d.Fatigue,
		&d.SleepStart, &d.SleepEnd, &d.SleepMinutes, &d.ImagePath, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func dateRange(from, to, column string) ([]string, []interface{}) {
	var conds []string
	var args []interface{}
	if from != "" {
		args = append(args, from)
		conds = append(conds, fmt.Sprintf("%s >= $%d", column, len(args)))
	}
	if to != "" {
		args = append(args, to)
		conds = append(conds, fmt.Sprintf("%s <= $%d", column, len(args)))
	}
	return conds, args
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
