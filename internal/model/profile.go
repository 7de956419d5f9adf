package model

// Profile is the denormalized per-creator contact card derived from entry
// writes. It is keyed by the creator's discord handle; every entry write that
// carries a non-empty handle overwrites the other three fields wholesale,
// last write wins. The JSON field for DisplayName is "name" to match what
// the site frontend expects.
type Profile struct {
	Discord     string  `json:"discord" db:"discord"`
	DisplayName *string `json:"name" db:"display_name"`
	Avatar      *string `json:"avatar" db:"avatar"`
	XHandle     *string `json:"x_handle" db:"x_handle"`
}
