package models

// Moderator is the only actor allowed to mutate content. Moderators are created and deleted,
// never renamed or re-passworded.
type Moderator struct {
	ID           uint   `json:"id" db:"id" gorm:"primaryKey"`
	Username     string `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string `json:"passwordHash" db:"password_hash" gorm:"type:text;not null"`
}
