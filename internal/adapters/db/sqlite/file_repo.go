package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

type FileRepo struct{ *Repo }

func NewFileRepo(db *sql.DB) *FileRepo { return &FileRepo{NewRepo(db)} }

func HashBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

const fileColumns = "id, path, format, source_lang, target_lang, hash, segment_count, created_at"

func (r *FileRepo) Create(ctx context.Context, f *domain.File) error {
	now := time.Now().UTC()
	q := r.SQ.Insert("files").
		Columns("path", "format", "source_lang", "target_lang", "hash", "segment_count", "created_at").
		Values(f.Path, f.Format, f.SourceLang, f.TargetLang, f.Hash, f.SegmentCount, now.Format(time.RFC3339))
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	f.ID = id
	f.CreatedAt = now
	return nil
}

func (r *FileRepo) Get(ctx context.Context, id int64) (*domain.File, error) {
	q := r.SQ.Select(fileColumns).From("files").Where(sq.Eq{"id": id})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return scanFile(r.DB.QueryRowContext(ctx, sqlStr, args...))
}

func (r *FileRepo) GetByPath(ctx context.Context, path string) (*domain.File, error) {
	q := r.SQ.Select(fileColumns).From("files").Where(sq.Eq{"path": path}).Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return scanFile(r.DB.QueryRowContext(ctx, sqlStr, args...))
}

func (r *FileRepo) List(ctx context.Context) ([]*domain.File, error) {
	q := r.SQ.Select(fileColumns).From("files").OrderBy("id DESC")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FileRepo) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := r.SQ.Delete("files").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*domain.File, error) {
	var f domain.File
	var created string
	if err := row.Scan(&f.ID, &f.Path, &f.Format, &f.SourceLang, &f.TargetLang, &f.Hash, &f.SegmentCount, &created); err != nil {
		return nil, err
	}
	f.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &f, nil
}
