package ipasset

import (
	"strings"

	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/net/http/bind"

	"golang.org/x/text/cases"
)

// Metadata describes an asset for the ledger
type Metadata struct {
	Title       string    `json:"title" validate:"required,max=256" example:"Test"`
	Description string    `json:"description,omitempty" validate:"max=4096" example:"first draft"`
	Type        AssetType `json:"type" validate:"required,oneof=art text code music research ai-output" example:"art"`
	Tags        []string  `json:"tags,omitempty" validate:"max=32,dive,min=1,max=64,asset_tag" example:"mix,live"`
	License     string    `json:"license,omitempty" validate:"max=128" example:"CC-BY-4.0"`
}

// Normalize trims text fields and folds tags into a set
func (m Metadata) Normalize() Metadata {
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)
	m.License = strings.TrimSpace(m.License)
	m.Type = AssetType(strings.ToLower(strings.TrimSpace(string(m.Type))))
	m.Tags = FoldTags(m.Tags)
	return m
}

// Validate normalizes m and checks it; failures carry ErrorCodeValidation and the field name
func (m Metadata) Validate() (Metadata, error) {
	n := m.Normalize()
	if n.Title == "" {
		return n, perr.WithField(perr.Validationf("title is required"), "title")
	}
	if err := Check(n); err != nil {
		return n, err
	}
	return n, nil
}

// FoldTags case folds, trims and deduplicates tags keeping first seen order
func FoldTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = fold.String(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitTags parses a comma separated list
func SplitTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return FoldTags(strings.Split(csv, ","))
}

// MetadataPatch replaces only the fields that are set
type MetadataPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Type        *AssetType `json:"type,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	License     *string    `json:"license,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p MetadataPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Type == nil && p.Tags == nil && p.License == nil
}

// Apply merges the patch into m and validates the result
func (p MetadataPatch) Apply(m Metadata) (Metadata, error) {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return m, perr.WithField(perr.Validationf("title cannot be cleared"), "title")
		}
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Tags != nil {
		m.Tags = p.Tags
	}
	if p.License != nil {
		m.License = *p.License
	}
	return m.Validate()
}

// Check runs struct validation and maps the first failure to a validation error
func Check(v any) error {
	if err := bind.Get().Validator.Struct(v); err != nil {
		field, msg := bind.ValidationFieldAndMessage(err)
		return perr.WithField(perr.Validationf("%s", msg), field)
	}
	return nil
}
