package model

import "time"

// HoFEntry is one Hall of Fame leaderboard record. Year and Placement are
// optional and persist as NULL when absent. ID is assigned by the store and
// never changes.
type HoFEntry struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Month     string    `json:"month" db:"month"`
	Year      *int      `json:"year" db:"year"`
	Link      string    `json:"link" db:"link"`
	Avatar    string    `json:"avatar" db:"avatar"`
	Discord   string    `json:"discord" db:"discord"`
	XHandle   string    `json:"x_handle" db:"x_handle"`
	Placement *int      `json:"placement" db:"placement"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WBCEntry is one World Build Contest leaderboard record. Year and DateRange
// are optional and persist as NULL when absent.
type WBCEntry struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Month     string    `json:"month" db:"month"`
	Year      *int      `json:"year" db:"year"`
	DateRange *string   `json:"date_range" db:"date_range"`
	Link      string    `json:"link" db:"link"`
	Discord   string    `json:"discord" db:"discord"`
	XHandle   string    `json:"x_handle" db:"x_handle"`
	Avatar    string    `json:"avatar" db:"avatar"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HoFFilter is an optional conjunction of equality predicates for listing
// Hall of Fame entries. Zero values mean "no predicate on this field".
type HoFFilter struct {
	Month    string
	Year     string
	Category string
}

// WBCFilter is the WBC counterpart of HoFFilter.
type WBCFilter struct {
	Month string
	Year  string
}
