package jobs

import (
	"time"

	"agency-backend/internal/seo"
)

type Job struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Title        string    `bson:"title" json:"title"`
	Location     string    `bson:"location" json:"location"`
	City         string    `bson:"city" json:"city"`
	State        string    `bson:"state" json:"state"`
	Type         string    `bson:"type" json:"type"`
	Category     string    `bson:"category" json:"category"`
	Description  string    `bson:"description" json:"description"`
	Requirements []string  `bson:"requirements" json:"requirements"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
	Featured     bool      `bson:"featured" json:"featured"`
	PayRange     string    `bson:"payRange" json:"payRange"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Location     string   `json:"location"`
	City         string   `json:"city" validate:"required"`
	State        string   `json:"state" validate:"required,len=2,alpha"`
	Type         string   `json:"type" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Requirements []string `json:"requirements" validate:"omitempty,dive,required"`
	IsActive     *bool    `json:"isActive"`
	Featured     *bool    `json:"featured"`
	PayRange     string   `json:"payRange" validate:"max=60"`
}

type View struct {
	Job
	JSONLD seo.JobPosting `json:"jsonLd"`
}
