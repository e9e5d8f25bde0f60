package models

// Category defines the struct for the 'categories' table.
type Category struct {
	ID          int64  `json:"categoryId" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	IsActive    bool   `json:"isActive" db:"is_active"`
}
