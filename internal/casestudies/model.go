package casestudies

import (
	"time"

	"agency-backend/internal/seo"
)

type CaseStudy struct {
	ID          string            `bson:"_id,omitempty" json:"id"`
	Slug        string            `bson:"slug" json:"slug"`
	Name        string            `bson:"name" json:"name"`
	Title       string            `bson:"title" json:"title"`
	Client      string            `bson:"client" json:"client"`
	Industry    string            `bson:"industry" json:"industry"`
	Category    string            `bson:"category" json:"category"`
	Services    []string          `bson:"services" json:"services"`
	Markets     []string          `bson:"markets" json:"markets"`
	Date        string            `bson:"date" json:"date"`
	Stats       map[string]string `bson:"stats" json:"stats"`
	Summary     string            `bson:"summary" json:"summary"`
	Challenge   string            `bson:"challenge" json:"challenge"`
	Solution    string            `bson:"solution" json:"solution"`
	Results     string            `bson:"results" json:"results"`
	HeroImage   string            `bson:"heroImage" json:"heroImage"`
	Images      []string          `bson:"images" json:"images"`
	IsPublished bool              `bson:"isPublished" json:"isPublished"`
	SortOrder   int               `bson:"sortOrder" json:"sortOrder"`
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Slug        string            `json:"slug" validate:"omitempty,slug"`
	Name        string            `json:"name"`
	Title       string            `json:"title" validate:"required"`
	Client      string            `json:"client" validate:"required"`
	Industry    string            `json:"industry" validate:"required"`
	Category    string            `json:"category" validate:"required"`
	Services    []string          `json:"services" validate:"omitempty,dive,required"`
	Markets     []string          `json:"markets" validate:"omitempty,dive,required"`
	Date        string            `json:"date" validate:"omitempty,date"`
	Stats       map[string]string `json:"stats" validate:"omitempty,dive,keys,required,endkeys,required"`
	Summary     string            `json:"summary"`
	Challenge   string            `json:"challenge"`
	Solution    string            `json:"solution"`
	Results     string            `json:"results"`
	HeroImage   string            `json:"heroImage" validate:"omitempty,uri"`
	Images      []string          `json:"images" validate:"omitempty,dive,uri"`
	IsPublished *bool             `json:"isPublished"`
	SortOrder   *int              `json:"sortOrder" validate:"omitempty,gte=0"`
}

type PublicListFilter struct {
	Category string
	Industry string
	// ByDate sorts newest first instead of by the curated sort order.
	ByDate bool
}

type AdminListFilter struct {
	Category string
}

// Detail is a single case study with its structured data.
type Detail struct {
	CaseStudy
	JSONLD seo.Graph `json:"jsonLd"`
}

// EnhancedItem pairs a case study with its own JSON-LD for listing cards.
type EnhancedItem struct {
	CaseStudy
	JSONLD seo.Article `json:"jsonLd"`
}

type Facets struct {
	Industries []string `json:"industries"`
	Services   []string `json:"services"`
}

type EnhancedList struct {
	Items  []EnhancedItem `json:"items"`
	Facets Facets         `json:"facets"`
}
