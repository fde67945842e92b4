package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// HistoryService materializa la lista watch_history de un usuario en videos
// enriquecidos con la proyección pública de su dueño.
type HistoryService struct {
	users  repository.UserRepository
	videos repository.VideoRepository
}

func NewHistoryService(users repository.UserRepository, videos repository.VideoRepository) *HistoryService {
	return &HistoryService{
		users:  users,
		videos: videos,
	}
}

// GetWatchHistory resuelve cada id de la lista en orden (más reciente
// primero). Es una materialización de lista, no un join de conjuntos: los ids
// repetidos producen entradas repetidas. Ids que ya no resuelven se omiten.
func (s *HistoryService) GetWatchHistory(ctx context.Context, userID string) ([]domain.EnrichedVideo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}

	history := user.WatchHistory
	if len(history) == 0 {
		return []domain.EnrichedVideo{}, nil
	}

	seen := make(map[string]bool, len(history))
	unique := make([]string, 0, len(history))
	for _, id := range history {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	videos, err := s.videos.ListByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.EnrichedVideo, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	enriched := make([]domain.EnrichedVideo, 0, len(history))
	for _, id := range history {
		if v, ok := byID[id]; ok {
			enriched = append(enriched, v)
		}
	}
	return enriched, nil
}
