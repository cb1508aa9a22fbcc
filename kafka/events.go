package kafka

import "time"

// FavoriteChangedEvent is emitted when a user adds or removes a favorite.
// The recipe service consumes it to keep per-recipe favorite counts.
type FavoriteChangedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	RecipeID  uint      `json:"recipe_id"`
	Favorited bool      `json:"favorited"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeFavoriteChanged = "favorite.changed"
)

// Kafka topics
const (
	TopicFavoriteChanged = "favorite-changed"
)
