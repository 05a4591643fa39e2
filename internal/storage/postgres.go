// Package storage is the Postgres adapter behind the pipeline's store
// ports, plus media file handling and the sitemap ping.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"radarbr/internal/apperr"
	"radarbr/internal/domain"
	"radarbr/internal/ports"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS articles (
    id            BIGSERIAL PRIMARY KEY,
    title         TEXT         NOT NULL,
    slug          VARCHAR(180) NOT NULL UNIQUE,
    dek           TEXT         NOT NULL,
    body_html     TEXT         NOT NULL,
    word_count    INT          NOT NULL,
    category      VARCHAR(40)  NOT NULL,
    source_key    VARCHAR(255) NOT NULL UNIQUE,
    source_label  VARCHAR(80)  NOT NULL DEFAULT '',
    image_url     TEXT         NOT NULL DEFAULT '',
    image_alt     TEXT         NOT NULL DEFAULT '',
    image_credit  TEXT         NOT NULL DEFAULT '',
    image_license VARCHAR(80)  NOT NULL DEFAULT '',
    image_origin  VARCHAR(30)  NOT NULL DEFAULT '',
    image_file    TEXT         NOT NULL DEFAULT '',
    status        VARCHAR(20)  NOT NULL,
    published_at  TIMESTAMPTZ  NOT NULL,
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles (created_at);
CREATE INDEX IF NOT EXISTS idx_articles_category ON articles (category);
`

// Store persists articles in Postgres and image bytes on disk.
type Store struct {
	db       *sql.DB
	builder  sq.StatementBuilderType
	mediaDir string
	pinger   *SitemapPinger
	logger   *slog.Logger
}

var (
	_ ports.ArticleStore     = (*Store)(nil)
	_ ports.StoreMaintenance = (*Store)(nil)
)

// Open connects, verifies the connection and ensures the schema.
func Open(ctx context.Context, dsn, mediaDir string, pinger *SitemapPinger, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, apperr.New(apperr.ConfigurationError, "database dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperr.Wrap(apperr.StoreError, "ping database", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, apperr.Wrap(apperr.StoreError, "ensure schema", err)
	}

	return NewStore(db, mediaDir, pinger, logger), nil
}

// NewStore wires an existing sql.DB, used directly by tests.
func NewStore(db *sql.DB, mediaDir string, pinger *SitemapPinger, logger *slog.Logger) *Store {
	return &Store{
		db:       db,
		builder:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		mediaDir: mediaDir,
		pinger:   pinger,
		logger:   logger,
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Exists reports whether the exact slug is already persisted.
func (s *Store) Exists(ctx context.Context, slug string) (bool, error) {
	return s.exists(ctx, sq.Eq{"slug": slug})
}

// ExistsKey reports whether the idempotency key is already persisted.
func (s *Store) ExistsKey(ctx context.Context, sourceKey string) (bool, error) {
	return s.exists(ctx, sq.Eq{"source_key": sourceKey})
}

func (s *Store) exists(ctx context.Context, cond sq.Eq) (bool, error) {
	query, args, err := s.builder.Select("1").From("articles").Where(cond).Limit(1).ToSql()
	if err != nil {
		return false, apperr.Wrap(apperr.StoreError, "build exists query", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Wrap(apperr.StoreError, "query exists", err)
	}
	return true, nil
}

// RecentSlugs returns the slugs created within the window.
func (s *Store) RecentSlugs(ctx context.Context, window time.Duration) (map[string]struct{}, error) {
	query, args, err := s.builder.
		Select("slug").
		From("articles").
		Where(sq.GtOrEq{"created_at": time.Now().Add(-window)}).
		ToSql()
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "build recent query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "query recent slugs", err)
	}
	defer rows.Close()

	slugs := make(map[string]struct{})
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, apperr.Wrap(apperr.StoreError, "scan slug", err)
		}
		slugs[slug] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "iterate slugs", err)
	}
	return slugs, nil
}

// Insert persists one article atomically and is the publication step: the
// draft goes in with status published. A unique violation on the slug or
// the source key maps to DuplicateKey; downloaded image bytes land in the
// media directory only after the row commits.
func (s *Store) Insert(ctx context.Context, article domain.Article) error {
	imageFile := ""
	if len(article.Image.Bytes) > 0 && article.Image.Filename != "" {
		imageFile = filepath.Join(s.mediaDir, article.Image.Filename)
	}

	query, args, err := s.builder.
		Insert("articles").
		Columns("title", "slug", "dek", "body_html", "word_count", "category",
			"source_key", "source_label",
			"image_url", "image_alt", "image_credit", "image_license", "image_origin", "image_file",
			"status", "published_at").
		Values(article.Title, article.Slug, article.Dek, article.BodyHTML, article.WordCount, article.Category,
			article.SourceKey, article.SourceLabel,
			article.Image.URL, article.Image.AltText, article.Image.Credit, article.Image.License,
			string(article.Image.Origin), imageFile,
			string(domain.StatusPublished), article.PublishedAt).
		ToSql()
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "build insert", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperr.Wrap(apperr.DuplicateKey, "article already persisted", err)
		}
		return apperr.Wrap(apperr.StoreError, "insert article", err)
	}

	if imageFile != "" {
		if err := s.writeMedia(imageFile, article.Image.Bytes); err != nil {
			// The row is durable; a lost local copy only downgrades the
			// image to its remote URL.
			s.warn("write media file failed", "file", imageFile, "err", err)
		}
	}
	return nil
}

func (s *Store) writeMedia(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// TouchSitemap pings the search engines; failures are logged only.
func (s *Store) TouchSitemap(ctx context.Context) {
	if s.pinger != nil {
		s.pinger.Ping(ctx)
	}
}

// DeleteByScope removes articles and, when asked, their media files.
// Scope "trend" limits deletion to pipeline-generated rows.
func (s *Store) DeleteByScope(ctx context.Context, scope string, withMedia bool) (int, error) {
	var cond sq.Sqlizer
	switch scope {
	case "trend":
		cond = sq.Like{"source_key": "trend:%"}
	case "all":
		cond = sq.Expr("TRUE")
	default:
		return 0, apperr.New(apperr.ConfigurationError, fmt.Sprintf("unknown reset scope %q", scope))
	}

	if withMedia {
		if err := s.removeMedia(ctx, cond); err != nil {
			return 0, err
		}
	}

	query, args, err := s.builder.Delete("articles").Where(cond).ToSql()
	if err != nil {
		return 0, apperr.Wrap(apperr.StoreError, "build delete", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperr.Wrap(apperr.StoreError, "delete articles", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Wrap(apperr.StoreError, "count deleted", err)
	}
	return int(n), nil
}

func (s *Store) removeMedia(ctx context.Context, cond sq.Sqlizer) error {
	query, args, err := s.builder.
		Select("image_file").
		From("articles").
		Where(cond).
		Where(sq.NotEq{"image_file": ""}).
		ToSql()
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "build media query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "query media files", err)
	}
	defer rows.Close()

	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return apperr.Wrap(apperr.StoreError, "scan media file", err)
		}
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			s.warn("remove media file failed", "file", file, "err", err)
		}
	}
	return rows.Err()
}

// Aggregate summarizes production since the cutoff for the report command.
func (s *Store) Aggregate(ctx context.Context, since time.Time) (domain.PeriodSummary, error) {
	summary := domain.PeriodSummary{
		Since:      since,
		ByCategory: make(map[string]int),
		ByHour:     make(map[int]int),
		ByWeekday:  make(map[time.Weekday]int),
		BySource:   make(map[string]int),
	}

	total, err := s.countSince(ctx, since)
	if err != nil {
		return domain.PeriodSummary{}, err
	}
	summary.Total = total

	if err := s.groupInto(ctx, since, "category", func(key string, n int) {
		summary.ByCategory[key] = n
	}); err != nil {
		return domain.PeriodSummary{}, err
	}
	if err := s.groupInto(ctx, since, "source_label", func(key string, n int) {
		summary.BySource[key] = n
	}); err != nil {
		return domain.PeriodSummary{}, err
	}
	if err := s.groupInto(ctx, since, "EXTRACT(HOUR FROM published_at)::int::text", func(key string, n int) {
		var hour int
		fmt.Sscanf(key, "%d", &hour)
		summary.ByHour[hour] = n
	}); err != nil {
		return domain.PeriodSummary{}, err
	}
	if err := s.groupInto(ctx, since, "EXTRACT(DOW FROM published_at)::int::text", func(key string, n int) {
		var dow int
		fmt.Sscanf(key, "%d", &dow)
		summary.ByWeekday[time.Weekday(dow)] = n
	}); err != nil {
		return domain.PeriodSummary{}, err
	}

	return summary, nil
}

func (s *Store) countSince(ctx context.Context, since time.Time) (int, error) {
	query, args, err := s.builder.
		Select("COUNT(*)").
		From("articles").
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, apperr.Wrap(apperr.StoreError, "build count", err)
	}
	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperr.Wrap(apperr.StoreError, "count articles", err)
	}
	return total, nil
}

func (s *Store) groupInto(ctx context.Context, since time.Time, expr string, add func(key string, n int)) error {
	query, args, err := s.builder.
		Select(expr+" AS g", "COUNT(*)").
		From("articles").
		Where(sq.GtOrEq{"created_at": since}).
		GroupBy("g").
		ToSql()
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "build group query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "query group", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return apperr.Wrap(apperr.StoreError, "scan group row", err)
		}
		add(key, n)
	}
	return rows.Err()
}

func (s *Store) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
