package models

// GalleryImageFields holds the client-editable columns of a gallery image
type GalleryImageFields struct {
	ImgURI string `json:"imgUri" db:"img_uri" gorm:"type:text;not null"`
}

// GalleryImage is a child row of exactly one project
type GalleryImage struct {
	ID        uint `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID uint `json:"-" db:"project_id" gorm:"not null;index:idx_gallery_image_project_id"`
	GalleryImageFields
}

var GalleryImageUpdatableColumns = []string{"ImgURI"}
