package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"vidtube/internal/domain"
)

// VideoRepository define el acceso de solo lectura a videos como join target.
type VideoRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.EnrichedVideo, error)
}

// PgVideoRepository implementa VideoRepository usando pgxpool.
type PgVideoRepository struct {
	pool *pgxpool.Pool
}

func NewPgVideoRepository(pool *pgxpool.Pool) *PgVideoRepository {
	return &PgVideoRepository{pool: pool}
}

// ListByIDs trae los videos indicados junto con la proyección pública de su
// dueño. El orden del resultado no está garantizado; el caller reordena.
func (r *PgVideoRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.EnrichedVideo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
		SELECT
			v.id, v.owner_id, v.video_file, v.thumbnail, v.title, v.description,
			v.duration, v.views, v.is_published, v.created_at,
			u.id, u.username, u.full_name, u.avatar_url
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = ANY($1::uuid[])
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []domain.EnrichedVideo
	for rows.Next() {
		var v domain.EnrichedVideo
		err := rows.Scan(
			&v.ID,
			&v.OwnerID,
			&v.VideoFile,
			&v.Thumbnail,
			&v.Title,
			&v.Description,
			&v.Duration,
			&v.Views,
			&v.IsPublished,
			&v.CreatedAt,
			&v.Owner.ID,
			&v.Owner.Username,
			&v.Owner.FullName,
			&v.Owner.AvatarURL,
		)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
