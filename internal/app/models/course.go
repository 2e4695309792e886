package models

// Course represents a course known to the results backend.
type Course struct {
	ID      string  `json:"_id"`
	Code    string  `json:"code"`
	Title   string  `json:"title"`
	Credits float64 `json:"credits"` // non-negative, half-point steps
}
