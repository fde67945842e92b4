package domain

import "time"

// Video es una entidad externa: este servicio solo la lee como join target.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	VideoFile   string    `json:"video_file"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// EnrichedVideo combina un video con la proyección pública de su dueño.
type EnrichedVideo struct {
	Video
	Owner PublicProfile `json:"owner"`
}
