package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

type SegmentRepo struct{ *Repo }

func NewSegmentRepo(db *sql.DB) *SegmentRepo { return &SegmentRepo{NewRepo(db)} }

const segmentColumns = "id, file_id, idx, source_text, translation, final_text, status, " +
	"source_length, translated_length, metadata_json, translation_meta_json, error, created_at, updated_at"

func (r *SegmentRepo) InsertBatch(ctx context.Context, segs []*domain.Segment) error {
	if len(segs) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	ib := r.SQ.Insert("segments").Columns(
		"id", "file_id", "idx", "source_text", "translation", "final_text", "status",
		"source_length", "translated_length", "metadata_json", "translation_meta_json",
		"error", "created_at", "updated_at")
	for _, s := range segs {
		metaJSON, err := json.Marshal(s.Meta)
		if err != nil {
			return err
		}
		tmJSON, err := marshalTransMeta(s.TransMeta)
		if err != nil {
			return err
		}
		ib = ib.Values(s.ID, s.FileID, s.Index, s.SourceText, s.Translation, s.FinalText,
			string(s.Status), s.SourceLength, s.TranslatedLength, string(metaJSON), tmJSON,
			s.Error, now, now)
	}
	sqlStr, args, err := ib.ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SegmentRepo) ListByFile(ctx context.Context, fileID int64) ([]*domain.Segment, error) {
	q := r.SQ.Select(segmentColumns).From("segments").
		Where(sq.Eq{"file_id": fileID}).OrderBy("idx ASC")
	return r.queryMany(ctx, q)
}

func (r *SegmentRepo) ListByFileStatus(ctx context.Context, fileID int64, statuses []domain.SegmentStatus) ([]*domain.Segment, error) {
	ss := make([]string, 0, len(statuses))
	for _, s := range statuses {
		ss = append(ss, string(s))
	}
	q := r.SQ.Select(segmentColumns).From("segments").
		Where(sq.Eq{"file_id": fileID, "status": ss}).OrderBy("idx ASC")
	return r.queryMany(ctx, q)
}

func (r *SegmentRepo) Get(ctx context.Context, id string) (*domain.Segment, error) {
	q := r.SQ.Select(segmentColumns).From("segments").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return scanSegment(r.DB.QueryRowContext(ctx, sqlStr, args...))
}

func (r *SegmentRepo) Update(ctx context.Context, s *domain.Segment) error {
	metaJSON, err := json.Marshal(s.Meta)
	if err != nil {
		return err
	}
	tmJSON, err := marshalTransMeta(s.TransMeta)
	if err != nil {
		return err
	}
	q := r.SQ.Update("segments").
		Set("translation", s.Translation).
		Set("final_text", s.FinalText).
		Set("status", string(s.Status)).
		Set("translated_length", s.TranslatedLength).
		Set("metadata_json", string(metaJSON)).
		Set("translation_meta_json", tmJSON).
		Set("error", s.Error).
		Set("updated_at", time.Now().UTC().Format(time.RFC3339)).
		Where(sq.Eq{"id": s.ID})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SegmentRepo) UpdateStatus(ctx context.Context, id string, status domain.SegmentStatus, errMsg string) error {
	q := r.SQ.Update("segments").
		Set("status", string(status)).
		Set("error", errMsg).
		Set("updated_at", time.Now().UTC().Format(time.RFC3339)).
		Where(sq.Eq{"id": id})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SegmentRepo) DeleteByFile(ctx context.Context, fileID int64) error {
	sqlStr, args, err := r.SQ.Delete("segments").Where(sq.Eq{"file_id": fileID}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SegmentRepo) CountByFile(ctx context.Context, fileID int64) (int, error) {
	q := r.SQ.Select("COUNT(*)").From("segments").Where(sq.Eq{"file_id": fileID})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SegmentRepo) CountByFileStatus(ctx context.Context, fileID int64) (map[domain.SegmentStatus]int, error) {
	q := r.SQ.Select("status", "COUNT(*)").From("segments").
		Where(sq.Eq{"file_id": fileID}).GroupBy("status")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[domain.SegmentStatus]int{}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[domain.SegmentStatus(st)] = n
	}
	return out, rows.Err()
}

func (r *SegmentRepo) queryMany(ctx context.Context, q sq.SelectBuilder) ([]*domain.Segment, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Segment
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func marshalTransMeta(tm *domain.TranslationMeta) (any, error) {
	if tm == nil {
		return nil, nil
	}
	b, err := json.Marshal(tm)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanSegment(row rowScanner) (*domain.Segment, error) {
	var s domain.Segment
	var status, metaJSON, created, updated string
	var tmJSON sql.NullString
	if err := row.Scan(&s.ID, &s.FileID, &s.Index, &s.SourceText, &s.Translation, &s.FinalText,
		&status, &s.SourceLength, &s.TranslatedLength, &metaJSON, &tmJSON, &s.Error,
		&created, &updated); err != nil {
		return nil, err
	}
	s.Status = domain.SegmentStatus(status)
	if err := json.Unmarshal([]byte(metaJSON), &s.Meta); err != nil {
		return nil, err
	}
	if tmJSON.Valid && tmJSON.String != "" {
		var tm domain.TranslationMeta
		if err := json.Unmarshal([]byte(tmJSON.String), &tm); err != nil {
			return nil, err
		}
		s.TransMeta = &tm
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, created)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &s, nil
}
