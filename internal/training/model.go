package training

import (
	"time"

	"agency-backend/internal/seo"
)

type Client struct {
	ID        string   `bson:"_id,omitempty" json:"id" yaml:"id"`
	Name      string   `bson:"name" json:"name" yaml:"name"`
	Slug      string   `bson:"slug" json:"slug" yaml:"slug"`
	CourseIDs []string `bson:"courseIds" json:"courseIds" yaml:"courseIds"`
}

type Course struct {
	ID          string   `bson:"_id,omitempty" json:"id" yaml:"id"`
	Title       string   `bson:"title" json:"title" yaml:"title"`
	Description string   `bson:"description" json:"description" yaml:"description"`
	ClientID    string   `bson:"clientId" json:"clientId" yaml:"clientId"`
	Modules     []Module `bson:"modules" json:"modules" yaml:"modules"`
}

type ModuleType string

const (
	TypeVideo       ModuleType = "video"
	TypeWebsite     ModuleType = "website"
	TypeQuiz        ModuleType = "quiz"
	TypeInteractive ModuleType = "interactive"
	TypeDocument    ModuleType = "document"
)

type Module struct {
	ID         string        `bson:"id" json:"id" yaml:"id"`
	Title      string        `bson:"title" json:"title" yaml:"title"`
	Type       ModuleType    `bson:"type" json:"type" yaml:"type"`
	Duration   int           `bson:"duration" json:"duration" yaml:"duration"`
	SortOrder  int           `bson:"sortOrder" json:"sortOrder" yaml:"sortOrder"`
	IsRequired bool          `bson:"isRequired" json:"isRequired" yaml:"isRequired"`
	Content    ModuleContent `bson:"content" json:"content" yaml:"content"`
}

// ModuleContent holds exactly one payload, matching the module type.
type ModuleContent struct {
	Video       *VideoContent       `bson:"video,omitempty" json:"video,omitempty" yaml:"video,omitempty"`
	Website     *WebsiteContent     `bson:"website,omitempty" json:"website,omitempty" yaml:"website,omitempty"`
	Quiz        *QuizContent        `bson:"quiz,omitempty" json:"quiz,omitempty" yaml:"quiz,omitempty"`
	Interactive *InteractiveContent `bson:"interactive,omitempty" json:"interactive,omitempty" yaml:"interactive,omitempty"`
	Document    *DocumentContent    `bson:"document,omitempty" json:"document,omitempty" yaml:"document,omitempty"`
}

type VideoContent struct {
	URL      string `bson:"url" json:"url" yaml:"url"`
	Provider string `bson:"provider" json:"provider" yaml:"provider"`
}

type WebsiteContent struct {
	URL string `bson:"url" json:"url" yaml:"url"`
}

type QuizContent struct {
	Questions []QuizQuestion `bson:"questions" json:"questions" yaml:"questions"`
}

type QuizQuestion struct {
	Prompt  string   `bson:"prompt" json:"prompt" yaml:"prompt"`
	Options []string `bson:"options" json:"options" yaml:"options"`
	Answer  int      `bson:"answer" json:"answer" yaml:"answer"`
}

type InteractiveContent struct {
	EmbedURL string `bson:"embedUrl" json:"embedUrl" yaml:"embedUrl"`
}

type DocumentContent struct {
	URL   string `bson:"url" json:"url" yaml:"url"`
	Pages int    `bson:"pages" json:"pages" yaml:"pages"`
}

type Progress struct {
	ID               string    `bson:"_id,omitempty" json:"-"`
	ClientID         string    `bson:"clientId" json:"clientId"`
	CourseID         string    `bson:"courseId" json:"courseId"`
	CompletedModules []string  `bson:"completedModules" json:"completedModules"`
	Percentage       int       `bson:"percentage" json:"percentage"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

type ModuleProgressRequest struct {
	ClientID  string `json:"clientId" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
	ModuleID  string `json:"moduleId" validate:"required"`
	Completed *bool  `json:"completed"`
}

type CourseView struct {
	Course
	TotalMinutes int        `json:"totalMinutes"`
	Progress     *Progress  `json:"progress,omitempty"`
	JSONLD       seo.Course `json:"jsonLd"`
}
