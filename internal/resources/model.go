// Package resources is the career resource library: articles, prompts,
// cheat sheets and videos grouped by category.
package resources

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a resource with the given id does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrInvalid wraps every validation error of create and update input.
var ErrInvalid = errors.New("invalid resource")

type Type string

const (
	TypeArticle    Type = "article"
	TypePrompt     Type = "prompt"
	TypeCheatsheet Type = "cheatsheet"
	TypeVideo      Type = "video"
	TypeTemplate   Type = "template"
)

// Types lists the known resource types.
var Types = []Type{TypeArticle, TypePrompt, TypeCheatsheet, TypeVideo, TypeTemplate}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

type Resource struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	Category     string    `json:"category"`
	ResourceType Type      `json:"resourceType"`
	IsPremium    bool      `json:"isPremium"`
	PromptText   *string   `json:"promptText"`
	ImageURL     *string   `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateInput is the body of a resource creation.
type CreateInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	URL          string  `json:"url"`
	Category     string  `json:"category"`
	ResourceType Type    `json:"resourceType"`
	IsPremium    bool    `json:"isPremium"`
	PromptText   *string `json:"promptText"`
	ImageURL     *string `json:"imageUrl"`
}

// Validate trims the input in place and checks required fields.
func (in *CreateInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.URL = strings.TrimSpace(in.URL)
	in.Category = strings.TrimSpace(in.Category)
	in.ResourceType = Type(strings.TrimSpace(string(in.ResourceType)))

	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"url", in.URL},
		{"category", in.Category},
		{"resourceType", string(in.ResourceType)},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, field.name)
		}
	}

	if !in.ResourceType.Valid() {
		return fmt.Errorf("%w: unknown resource type %q", ErrInvalid, in.ResourceType)
	}

	return nil
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	URL          *string `json:"url"`
	Category     *string `json:"category"`
	ResourceType *Type   `json:"resourceType"`
	IsPremium    *bool   `json:"isPremium"`
	PromptText   *string `json:"promptText"`
	ImageURL     *string `json:"imageUrl"`
}

func (in *UpdateInput) Validate() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"url", in.URL},
		{"category", in.Category},
	}
	for _, field := range fields {
		if field.value == nil {
			continue
		}
		*field.value = strings.TrimSpace(*field.value)
		if *field.value == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalid, field.name)
		}
	}

	if in.ResourceType != nil && !in.ResourceType.Valid() {
		return fmt.Errorf("%w: unknown resource type %q", ErrInvalid, *in.ResourceType)
	}

	return nil
}

// apply copies the set fields of in onto r.
func (in UpdateInput) apply(r *Resource) {
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.URL != nil {
		r.URL = *in.URL
	}
	if in.Category != nil {
		r.Category = *in.Category
	}
	if in.ResourceType != nil {
		r.ResourceType = *in.ResourceType
	}
	if in.IsPremium != nil {
		r.IsPremium = *in.IsPremium
	}
	if in.PromptText != nil {
		r.PromptText = in.PromptText
	}
	if in.ImageURL != nil {
		r.ImageURL = in.ImageURL
	}
}
