package models

// Student is a student record as returned by the results backend
type Student struct {
	ID         string `json:"_id" example:"665f1c2e9b1d4a0012ab34cd"` // Backend document id
	Name       string `json:"name" example:"Ada Lovelace"`
	Email      string `json:"email" example:"ada@example.edu"`
	RollNumber string `json:"roll_number" example:"CS-2024-001"`
	Department string `json:"department" example:"Computer Science"`
	Semester   int    `json:"semester" example:"1"` // 1-12
	Year       int    `json:"year" example:"2024"`  // 2000-2100
}
