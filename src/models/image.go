package models

import "time"

// Image, ImageMetadata and Thumbnail are the three object stores of the
// picture database. Each is keyed by the picture id.
type Image struct {
	ID         string    `gorm:"primarykey;type:varchar(64)" json:"id"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	UploadDate time.Time `json:"uploadDate,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Image) TableName() string {
	return "images"
}

type ImageMetadata struct {
	ID          string `gorm:"primarykey;type:varchar(64)" json:"id"`
	Name        string `json:"name,omitempty"`
	Category    string `gorm:"index" json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (ImageMetadata) TableName() string {
	return "metadata"
}

type Thumbnail struct {
	ID           string `gorm:"primarykey;type:varchar(64)" json:"id"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Thumbnail) TableName() string {
	return "thumbnails"
}
