package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
)

type ShortLinkRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

func NewShortLinkRepo(pool *pgxpool.Pool, logger *logrus.Logger) *ShortLinkRepo {
	return &ShortLinkRepo{
		pool:   pool,
		logger: logger.WithField("module", "repository/postgres/short_link"),
	}
}

const linkColumns = `id, short_code, original_url, account_id, click_count, created_at`

const insertLinkSQL = `
INSERT INTO short_links (` + linkColumns + `)
VALUES ($1, $2, $3, $4, $5, $6)`

// Create вставляет запись. Нарушение уникального индекса по short_code означает коллизию кода.
func (r *ShortLinkRepo) Create(ctx context.Context, link *models.ShortLink) error {
	_, err := r.pool.Exec(ctx, insertLinkSQL,
		link.ID, link.ShortCode, link.OriginalURL, link.AccountID, link.ClickCount, link.CreatedAt,
	)
	if err != nil {
		converted := convertErrorType(err)
		if !isDuplicate(converted) {
			r.logger.WithError(err).Errorf("failed to create record %s", link.ID)
		}
		return fmt.Errorf("failed to create short link: %w", converted)
	}
	return nil
}

func (r *ShortLinkRepo) GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM short_links WHERE short_code = $1`, code)
	link, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get short link by code %s: %w", code, convertErrorType(err))
	}
	return link, nil
}

func (r *ShortLinkRepo) GetByID(ctx context.Context, id string) (*models.ShortLink, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM short_links WHERE id = $1`, id)
	link, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get short link by id %s: %w", id, convertErrorType(err))
	}
	return link, nil
}

const listLinksSQL = `
SELECT ` + linkColumns + `
FROM short_links
WHERE account_id = $1
ORDER BY created_at DESC, id DESC`

func (r *ShortLinkRepo) ListByAccount(ctx context.Context, accountID string) ([]models.ShortLink, error) {
	rows, err := r.pool.Query(ctx, listLinksSQL, accountID)
	if err != nil {
		r.logger.WithError(err).Errorf("failed to list records of account %s", accountID)
		return nil, fmt.Errorf("failed to list short links: %w", convertErrorType(err))
	}
	defer rows.Close()

	var links = make([]models.ShortLink, 0)
	for rows.Next() {
		link, scanErr := scanLink(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan short link: %w", convertErrorType(scanErr))
		}
		links = append(links, *link)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate short links: %w", convertErrorType(rowsErr))
	}
	return links, nil
}

func (r *ShortLinkRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, id)
	if err != nil {
		r.logger.WithError(err).Errorf("failed to delete record %s", id)
		return fmt.Errorf("failed to delete short link: %w", convertErrorType(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("short link %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// IncrementClicks атомарный инкремент на стороне БД.
func (r *ShortLinkRepo) IncrementClicks(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE short_links SET click_count = click_count + 1 WHERE short_code = $1`, code)
	if err != nil {
		r.logger.WithError(err).Errorf("failed to increment clicks of %s", code)
		return fmt.Errorf("failed to increment clicks: %w", convertErrorType(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("short link %s: %w", code, repositories.ErrNotFound)
	}
	return nil
}

func scanLink(row pgx.Row) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := row.Scan(
		&link.ID, &link.ShortCode, &link.OriginalURL, &link.AccountID, &link.ClickCount, &link.CreatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &link, nil
}
