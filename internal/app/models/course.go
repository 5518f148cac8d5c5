package models

// Course is immutable reference data served by the course catalog
type Course struct {
	ID          string `json:"id" yaml:"id" db:"id"`
	Name        string `json:"name" yaml:"name" db:"name"`
	Department  string `json:"department" yaml:"department" db:"department"`
	IconName    string `json:"iconName" yaml:"iconName" db:"icon_name"`
	Description string `json:"description" yaml:"description" db:"description"`
}
