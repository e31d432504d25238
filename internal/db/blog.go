package db

import "gorm.io/gorm"

// Blog 定义了博客文章模型。Slug 创建后不再改写，作为稳定的永久链接。
type Blog struct {
	gorm.Model
	Slug      string `gorm:"size:200;uniqueIndex;not null"`
	Title     string `gorm:"size:200;not null"`
	Content   string `gorm:"type:text"`
	Plaintext string `gorm:"type:text"`
	Excerpt   string `gorm:"size:500"`
	Status    string `gorm:"size:20;default:draft;index"`
	Views     uint64 `gorm:"default:0"`
	Images    []BlogImage
}

const (
	// BlogStatusPublished 表示文章对外可见。
	BlogStatusPublished = "published"
	// BlogStatusDraft 表示文章仍为草稿。
	BlogStatusDraft = "draft"
)

// BlogImage 是博客文章的图片附件，type 区分封面与图集。
type BlogImage struct {
	gorm.Model
	BlogID    uint   `gorm:"index;not null"`
	ImageURL  string `gorm:"size:500;not null"`
	Type      string `gorm:"size:20;not null"`
	SortOrder int    `gorm:"default:0"`
}

const (
	// ImageTypeCover 表示列表页展示的主图。
	ImageTypeCover = "cover"
	// ImageTypeGallery 表示详情页的图集，顺序即插入顺序。
	ImageTypeGallery = "gallery"
)
