package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Project is a portfolio entry
type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Author      string     `gorm:"not null" json:"author"`
	Category    string     `gorm:"not null" json:"category"`
	Stack       StringList `gorm:"type:text;not null" json:"stack"`
	Tags        StringList `gorm:"type:text;not null" json:"tags"`
	Images      StringList `gorm:"type:text;not null" json:"images"`
	ImageURL    string     `gorm:"column:image_url;not null" json:"imageUrl"`
	DemoURL     string     `gorm:"column:demo_url;not null" json:"demoUrl"`
	RepoURL     string     `gorm:"column:repo_url;not null" json:"repoUrl"`
	// CreatedAt is free text supplied by clients, never parsed.
	CreatedAt string `gorm:"column:created_at;not null" json:"createdAt"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Normalize fills list defaults and derives the cover image.
func (p *Project) Normalize() {
	if p.Stack == nil {
		p.Stack = StringList{}
	}
	if p.Tags == nil {
		p.Tags = StringList{}
	}
	if p.Images == nil {
		p.Images = StringList{}
	}
	if p.ImageURL == "" {
		p.ImageURL = p.Images.First()
	}
}

// AllImages returns the gallery plus the cover, without duplicates.
func (p *Project) AllImages() []string {
	seen := make(map[string]bool, len(p.Images)+1)
	out := make([]string, 0, len(p.Images)+1)
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}
	for _, u := range p.Images {
		add(u)
	}
	add(p.ImageURL)
	return out
}

// Snapshot serializes the full project state for the audit log.
func (p *Project) Snapshot() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("snapshot project %d: %w", p.ID, err)
	}
	return string(b), nil
}

// ParseProjectSnapshot decodes a snapshot previously produced by Snapshot.
// Anything other than a JSON object is rejected.
func ParseProjectSnapshot(data string) (*Project, error) {
	if trimmed := strings.TrimSpace(data); !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("decode project snapshot: not a JSON object")
	}
	var p Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode project snapshot: %w", err)
	}
	p.Normalize()
	return &p, nil
}

// UpdateColumns lists every mutable column with its current value.
func (p *Project) UpdateColumns() map[string]interface{} {
	return map[string]interface{}{
		"title":       p.Title,
		"description": p.Description,
		"author":      p.Author,
		"category":    p.Category,
		"stack":       p.Stack,
		"tags":        p.Tags,
		"images":      p.Images,
		"image_url":   p.ImageURL,
		"demo_url":    p.DemoURL,
		"repo_url":    p.RepoURL,
		"created_at":  p.CreatedAt,
	}
}

// ProjectPatch is a partial update. A nil or empty field leaves the stored
// value untouched; fields named in Clear are reset to their empty value.
type ProjectPatch struct {
	ID          *uint       `json:"id,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Author      *string     `json:"author,omitempty"`
	Category    *string     `json:"category,omitempty"`
	Stack       *StringList `json:"stack,omitempty"`
	Tags        *StringList `json:"tags,omitempty"`
	Images      *StringList `json:"images,omitempty"`
	ImageURL    *string     `json:"imageUrl,omitempty"`
	DemoURL     *string     `json:"demoUrl,omitempty"`
	RepoURL     *string     `json:"repoUrl,omitempty"`
	CreatedAt   *string     `json:"createdAt,omitempty"`
	Clear       []string    `json:"clear,omitempty"`
}

// Apply merges the patch into p. Clears run first, then supplied values.
func (p *Project) Apply(patch ProjectPatch) error {
	for _, field := range patch.Clear {
		if err := p.clearField(field); err != nil {
			return err
		}
	}

	mergeString(&p.Title, patch.Title)
	mergeString(&p.Description, patch.Description)
	mergeString(&p.Author, patch.Author)
	mergeString(&p.Category, patch.Category)
	mergeList(&p.Stack, patch.Stack)
	mergeList(&p.Tags, patch.Tags)
	imagesReplaced := mergeList(&p.Images, patch.Images)
	coverSupplied := mergeString(&p.ImageURL, patch.ImageURL)
	mergeString(&p.DemoURL, patch.DemoURL)
	mergeString(&p.RepoURL, patch.RepoURL)
	mergeString(&p.CreatedAt, patch.CreatedAt)

	if imagesReplaced && !coverSupplied {
		p.ImageURL = p.Images.First()
	}
	return nil
}

func (p *Project) clearField(field string) error {
	switch field {
	case "title":
		p.Title = ""
	case "description":
		p.Description = ""
	case "author":
		p.Author = ""
	case "category":
		p.Category = ""
	case "stack":
		p.Stack = StringList{}
	case "tags":
		p.Tags = StringList{}
	case "images":
		p.Images = StringList{}
	case "imageUrl":
		p.ImageURL = ""
	case "demoUrl":
		p.DemoURL = ""
	case "repoUrl":
		p.RepoURL = ""
	case "createdAt":
		p.CreatedAt = ""
	default:
		return fmt.Errorf("unknown field %q in clear", field)
	}
	return nil
}

func mergeString(dst *string, v *string) bool {
	if v == nil || *v == "" {
		return false
	}
	*dst = *v
	return true
}

func mergeList(dst *StringList, v *StringList) bool {
	if v == nil || len(*v) == 0 {
		return false
	}
	*dst = append(StringList{}, (*v)...)
	return true
}
