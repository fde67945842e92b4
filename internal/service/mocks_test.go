package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByUsernameOrEmail(_ context.Context, login string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateAccount(_ context.Context, id, fullName, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	user.FullName = fullName
	user.Email = email
	m.users[id] = user
	return user, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	m.users[id] = user
	return nil
}

func (m *mockUserRepo) UpdateAvatar(_ context.Context, id, url, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.AvatarURL = url
	user.AvatarKey = key
	m.users[id] = user
	return nil
}

func (m *mockUserRepo) UpdateCoverImage(_ context.Context, id, url, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.CoverImageURL = url
	user.CoverImageKey = key
	m.users[id] = user
	return nil
}

func (m *mockUserRepo) SetRefreshTokenHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.RefreshTokenHash = hash
	m.users[id] = user
	return nil
}

func (m *mockUserRepo) GetRefreshTokenHash(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return user.RefreshTokenHash, nil
}

func (m *mockUserRepo) RotateRefreshTokenHash(_ context.Context, id, oldHash, newHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.RefreshTokenHash != oldHash {
		return false, nil
	}
	user.RefreshTokenHash = newHash
	m.users[id] = user
	return true, nil
}

func (m *mockUserRepo) ClearRefreshTokenHash(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil
	}
	user.RefreshTokenHash = ""
	m.users[id] = user
	return nil
}

func (m *mockUserRepo) AppendWatchHistory(_ context.Context, id, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.WatchHistory = append([]string{videoID}, user.WatchHistory...)
	m.users[id] = user
	return nil
}

type mockSubscriptionRepo struct {
	edges []domain.Subscription
}

func (m *mockSubscriptionRepo) Create(_ context.Context, sub domain.Subscription) error {
	m.edges = append(m.edges, sub)
	return nil
}

func (m *mockSubscriptionRepo) Delete(_ context.Context, subscriberID, channelID string) error {
	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.SubscriberID != subscriberID || e.ChannelID != channelID {
			kept = append(kept, e)
		}
	}
	m.edges = kept
	return nil
}

func (m *mockSubscriptionRepo) GetChannelStats(_ context.Context, channelID, viewerID string) (repository.ChannelStats, error) {
	var stats repository.ChannelStats
	for _, e := range m.edges {
		if e.ChannelID == channelID {
			stats.SubscribersCount++
			if viewerID != "" && e.SubscriberID == viewerID {
				stats.IsSubscribed = true
			}
		}
		if e.SubscriberID == channelID {
			stats.SubscribedToCount++
		}
	}
	return stats, nil
}

type mockVideoRepo struct {
	videos map[string]domain.EnrichedVideo
}

func (m *mockVideoRepo) ListByIDs(_ context.Context, ids []string) ([]domain.EnrichedVideo, error) {
	var result []domain.EnrichedVideo
	for _, id := range ids {
		if v, ok := m.videos[id]; ok {
			result = append(result, v)
		}
	}
	return result, nil
}
