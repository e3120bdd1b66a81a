package domain

import "strings"

// MediaCategory identifies the kind of media being resold. It drives the
// default item weight and the flat shipping cost used for margin checks.
type MediaCategory string

const (
	MediaVideoGame MediaCategory = "video_game"
	MediaDVD       MediaCategory = "dvd"
	MediaMusicCD   MediaCategory = "music_cd"
	MediaUnknown   MediaCategory = "unknown"
)

// String returns the wire name of the category.
func (m MediaCategory) String() string {
	return string(m)
}

// Known reports whether m is one of the priced categories.
func (m MediaCategory) Known() bool {
	switch m {
	case MediaVideoGame, MediaDVD, MediaMusicCD:
		return true
	}
	return false
}

// ParseMediaCategory normalises a loosely typed label into a MediaCategory.
// Labels that match nothing return MediaUnknown.
func ParseMediaCategory(s string) MediaCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video_game", "videogame", "video game", "game":
		return MediaVideoGame
	case "dvd", "movie":
		return MediaDVD
	case "music_cd", "cd", "music":
		return MediaMusicCD
	default:
		return MediaUnknown
	}
}
