package models

// TechnologyFields holds the client-editable columns of a technology
type TechnologyFields struct {
	ImgURI      string `json:"imgUri" db:"img_uri" gorm:"type:text;not null"`
	Description string `json:"description" db:"description" gorm:"type:text;not null"`
}

// Technology is a child row of exactly one project
type Technology struct {
	ID        uint `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID uint `json:"-" db:"project_id" gorm:"not null;index:idx_technology_project_id"`
	TechnologyFields
}

var TechnologyUpdatableColumns = []string{"ImgURI", "Description"}
