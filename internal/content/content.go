// Package content holds the agency's seed content as embedded YAML: posts,
// case studies, jobs, events, venues, training courses, the default content
// schedule and the service and industry catalog used by landing pages.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"agency-backend/internal/blog"
	"agency-backend/internal/casestudies"
	"agency-backend/internal/events"
	"agency-backend/internal/jobs"
	"agency-backend/internal/schedule"
	"agency-backend/internal/training"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

// Bundle is every piece of seed content. Posts, case studies and jobs use
// the admin API payload shapes so they go through the same defaults as
// content created from the dashboard.
type Bundle struct {
	Posts       []blog.UpsertRequest
	CaseStudies []casestudies.UpsertRequest
	Jobs        []jobs.UpsertRequest
	Events      []events.Event
	Venues      []events.Venue
	Clients     []training.Client
	Courses     []training.Course
	Schedule    map[string]schedule.Channel
	Catalog     Catalog
}

// document is the on-disk shape of one data file. Payload sections are kept
// generic and re-encoded as JSON so the request types need no yaml tags.
type document struct {
	Posts       []map[string]interface{}    `yaml:"posts"`
	CaseStudies []map[string]interface{}    `yaml:"caseStudies"`
	Jobs        []map[string]interface{}    `yaml:"jobs"`
	Events      []events.Event              `yaml:"events"`
	Venues      []events.Venue              `yaml:"venues"`
	Clients     []training.Client           `yaml:"clients"`
	Courses     []training.Course           `yaml:"courses"`
	Schedule    map[string]schedule.Channel `yaml:"schedule"`
	Catalog     *Catalog                    `yaml:"catalog"`
}

// Load decodes the embedded data files.
func Load() (*Bundle, error) {
	return LoadFS(files, "data")
}

// LoadFS decodes every .yaml file in dir of fsys, in name order.
func LoadFS(fsys fs.FS, dir string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".yaml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	b := &Bundle{Schedule: map[string]schedule.Channel{}}
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		var doc document
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := b.merge(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return b, nil
}

func (b *Bundle) merge(doc document) error {
	posts, err := reencode[blog.UpsertRequest](doc.Posts)
	if err != nil {
		return fmt.Errorf("posts: %w", err)
	}
	cases, err := reencode[casestudies.UpsertRequest](doc.CaseStudies)
	if err != nil {
		return fmt.Errorf("case studies: %w", err)
	}
	jobList, err := reencode[jobs.UpsertRequest](doc.Jobs)
	if err != nil {
		return fmt.Errorf("jobs: %w", err)
	}

	b.Posts = append(b.Posts, posts...)
	b.CaseStudies = append(b.CaseStudies, cases...)
	b.Jobs = append(b.Jobs, jobList...)
	b.Events = append(b.Events, doc.Events...)
	b.Venues = append(b.Venues, doc.Venues...)
	b.Clients = append(b.Clients, doc.Clients...)
	b.Courses = append(b.Courses, doc.Courses...)
	for k, v := range doc.Schedule {
		b.Schedule[k] = v
	}
	if doc.Catalog != nil {
		b.Catalog.Services = append(b.Catalog.Services, doc.Catalog.Services...)
		b.Catalog.Industries = append(b.Catalog.Industries, doc.Catalog.Industries...)
	}
	return nil
}

func reencode[T any](items []map[string]interface{}) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
