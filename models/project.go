package models

// ProjectFields holds the scalar columns a client may overwrite on a project
type ProjectFields struct {
	Name           string  `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Description    string  `json:"description" db:"description" gorm:"type:text;not null"`
	ImgURI         string  `json:"imgUri" db:"img_uri" gorm:"type:text;not null"`
	ServerEndpoint string  `json:"serverEndpoint" db:"server_endpoint" gorm:"type:text;not null"`
	GithubURL      string  `json:"githubUrl" db:"github_url" gorm:"type:text;not null"`
	DemoURL        *string `json:"demoUrl" db:"demo_url" gorm:"type:text"`
	Active         bool    `json:"active" db:"active" gorm:"not null"`
}

// Project is the aggregate root owning its technologies and gallery images
type Project struct {
	ID uint `json:"id" db:"id" gorm:"primaryKey"`
	ProjectFields

	Technologies  []Technology   `json:"technologies" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	GalleryImages []GalleryImage `json:"galleryImages" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// ProjectUpdatableColumns lists the columns overwritten by a full project update.
var ProjectUpdatableColumns = []string{"Name", "Description", "ImgURI", "ServerEndpoint", "GithubURL", "DemoURL", "Active"}
