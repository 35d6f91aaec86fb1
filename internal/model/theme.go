package model

// Theme is a room-escape scenario that can be booked.
type Theme struct {
	ID          uint64 `db:"id"`          // themes.id
	Name        string `db:"name"`        // themes.name
	Description string `db:"description"` // themes.description
	Thumbnail   string `db:"thumbnail"`   // themes.thumbnail (URL or file name)
}
