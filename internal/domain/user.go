package domain

import "time"

type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	AvatarURL        string    `json:"avatar"`
	AvatarKey        string    `json:"-"`
	CoverImageURL    string    `json:"cover_image,omitempty"`
	CoverImageKey    string    `json:"-"`
	PasswordHash     string    `json:"-"`
	RefreshTokenHash string    `json:"-"`
	WatchHistory     []string  `json:"watch_history,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PublicProfile es la proyección mínima de un usuario como dueño de contenido.
type PublicProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar"`
}
