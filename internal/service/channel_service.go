package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// ProfileCache guarda snapshots de perfiles de canal de corta vida.
// Una implementación nil desactiva el cacheo.
type ProfileCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// ChannelService proyecta la relación de suscripciones en vistas de canal.
type ChannelService struct {
	logger *zap.Logger
	users  repository.UserRepository
	subs   repository.SubscriptionRepository
	cache  ProfileCache
}

func NewChannelService(logger *zap.Logger, users repository.UserRepository, subs repository.SubscriptionRepository, cache ProfileCache) *ChannelService {
	return &ChannelService{
		logger: logger,
		users:  users,
		subs:   subs,
		cache:  cache,
	}
}

// GetChannelProfile arma la vista de un canal para un viewer. viewerID vacío
// significa viewer anónimo: is_subscribed queda en false, no es un error.
// Es una proyección de solo lectura; tolera estar levemente desactualizada.
func (s *ChannelService) GetChannelProfile(ctx context.Context, viewerID, channelUsername string) (domain.ChannelProfile, error) {
	username := strings.ToLower(strings.TrimSpace(channelUsername))
	if username == "" {
		return domain.ChannelProfile{}, fmt.Errorf("%w: username is required", ErrValidation)
	}

	cacheKey := "channel:" + username + ":viewer:" + viewerID
	if s.cache != nil {
		var cached domain.ChannelProfile
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("channel profile cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	channel, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChannelProfile{}, fmt.Errorf("%w: channel", ErrNotFound)
		}
		return domain.ChannelProfile{}, err
	}

	stats, err := s.subs.GetChannelStats(ctx, channel.ID, viewerID)
	if err != nil {
		return domain.ChannelProfile{}, err
	}

	profile := domain.ChannelProfile{
		ID:                channel.ID,
		Username:          channel.Username,
		FullName:          channel.FullName,
		Email:             channel.Email,
		AvatarURL:         channel.AvatarURL,
		CoverImageURL:     channel.CoverImageURL,
		SubscribersCount:  stats.SubscribersCount,
		SubscribedToCount: stats.SubscribedToCount,
		IsSubscribed:      stats.IsSubscribed,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, profile); err != nil {
			s.logger.Warn("channel profile cache write failed", zap.Error(err))
		}
	}

	return profile, nil
}
