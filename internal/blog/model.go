package blog

import (
	"time"

	"agency-backend/internal/markdown"
	"agency-backend/internal/seo"
)

type Post struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Slug        string    `bson:"slug" json:"slug"`
	Content     string    `bson:"content" json:"content"`
	Excerpt     string    `bson:"excerpt" json:"excerpt"`
	Author      string    `bson:"author" json:"author"`
	Category    string    `bson:"category" json:"category"`
	Tags        []string  `bson:"tags" json:"tags"`
	Date        string    `bson:"date" json:"date"`
	ReadTime    string    `bson:"readTime" json:"readTime"`
	HeroImage   string    `bson:"heroImage,omitempty" json:"heroImage,omitempty"`
	IsPublished bool      `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,slug"`
	Content     string   `json:"content" validate:"required"`
	Excerpt     string   `json:"excerpt" validate:"max=500"`
	Author      string   `json:"author" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
	Date        string   `json:"date" validate:"omitempty,date"`
	ReadTime    string   `json:"readTime"`
	HeroImage   string   `json:"heroImage" validate:"omitempty,uri"`
	IsPublished *bool    `json:"isPublished"`
}

type ListFilter struct {
	Category string
	Tag      string
	// IncludeDrafts lists unpublished posts too; admin only.
	IncludeDrafts bool
}

// View is a post rendered for the public page.
type View struct {
	Post
	Blocks []markdown.Block `json:"blocks"`
	HTML   string           `json:"html"`
	JSONLD seo.Graph        `json:"jsonLd"`
}
