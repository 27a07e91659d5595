// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package schema

import "time"

// Ingredient is one recipe line item.
type Ingredient struct {
	Name     string `json:"name" validate:"required,min=1,max=2000"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// Nutrition summarizes the macro values of a recipe per serving.
type Nutrition struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// Artifact is the stored metadata of a file attached to a parent resource.
// The document is system-built, either from an upload or from a remote URL
// registration.
type Artifact struct {
	ID          string    `json:"id"`
	ParentURN   string    `json:"parent_urn"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Creator     string    `json:"creator,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	FileURL     string    `json:"file_url"`
	FileS3URL   string    `json:"file_s3_url,omitempty"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	Language    string    `json:"language,omitempty"`
}

// GuideCreation is the payload accepted when registering a dietary guide.
// The urn field carries only the slug, the stored identifier is derived
// from it.
type GuideCreation struct {
	URN             string     `json:"urn" validate:"required,min=1,max=100,slug"`
	Title           string     `json:"title" validate:"required,min=1,max=2000"`
	Description     string     `json:"description" validate:"required,min=1,max=2000"`
	Tags            []string   `json:"tags" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	Status          Status     `json:"status" validate:"required,oneof=active draft archived deleted deprecated"`
	URL             string     `json:"url" validate:"required,http_url"`
	License         License    `json:"license" validate:"required,oneof=MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"`
	Region          string     `json:"region" validate:"omitempty,iso3166_1a2"`
	Language        string     `json:"language" validate:"omitempty,iso639_1"`
	Content         string     `json:"content" validate:"required"`
	Topic           string     `json:"topic,omitempty"`
	Audience        string     `json:"audience,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
}

func (g *GuideCreation) SetDefaults() {
	if g.Status == "" {
		g.Status = StatusActive
	}
}

// GuideUpdate carries a partial guide. System fields cannot be modified and
// at least one field must be set.
type GuideUpdate struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=1,max=2000"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	Tags            *[]string  `json:"tags,omitempty" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	Status          *Status    `json:"status,omitempty" validate:"omitempty,oneof=active draft archived deleted deprecated"`
	URL             *string    `json:"url,omitempty" validate:"omitempty,http_url"`
	License         *License   `json:"license,omitempty" validate:"omitempty,oneof=MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"`
	Region          *string    `json:"region,omitempty" validate:"omitempty,iso3166_1a2"`
	Language        *string    `json:"language,omitempty" validate:"omitempty,iso639_1"`
	Content         *string    `json:"content,omitempty"`
	Topic           *string    `json:"topic,omitempty"`
	Audience        *string    `json:"audience,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
}

// RecipeCreation is the payload accepted when registering a recipe
// collection.
type RecipeCreation struct {
	URN           string       `json:"urn" validate:"required,min=1,max=100,slug"`
	Title         string       `json:"title" validate:"required,min=1,max=2000"`
	Description   string       `json:"description" validate:"required,min=1,max=2000"`
	Tags          []string     `json:"tags" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	Status        Status       `json:"status" validate:"required,oneof=active draft archived deleted deprecated"`
	URL           string       `json:"url" validate:"required,http_url"`
	License       License      `json:"license" validate:"required,oneof=MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"`
	Language      string       `json:"language" validate:"omitempty,iso639_1"`
	Ingredients   []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions  string       `json:"instructions,omitempty"`
	Nutrition     *Nutrition   `json:"nutrition,omitempty"`
	EmbeddingHint string       `json:"embedding_hint,omitempty"`
}

func (r *RecipeCreation) SetDefaults() {
	if r.Status == "" {
		r.Status = StatusActive
	}
}

// RecipeUpdate carries a partial recipe collection.
type RecipeUpdate struct {
	Title         *string       `json:"title,omitempty" validate:"omitempty,min=1,max=2000"`
	Description   *string       `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	Tags          *[]string     `json:"tags,omitempty" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	Status        *Status       `json:"status,omitempty" validate:"omitempty,oneof=active draft archived deleted deprecated"`
	URL           *string       `json:"url,omitempty" validate:"omitempty,http_url"`
	License       *License      `json:"license,omitempty" validate:"omitempty,oneof=MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"`
	Language      *string       `json:"language,omitempty" validate:"omitempty,iso639_1"`
	Ingredients   *[]Ingredient `json:"ingredients,omitempty" validate:"omitempty,min=1,dive"`
	Instructions  *string       `json:"instructions,omitempty"`
	Nutrition     *Nutrition    `json:"nutrition,omitempty"`
	EmbeddingHint *string       `json:"embedding_hint,omitempty"`
}

// PolicyCreation is the payload accepted when registering a food policy
// document.
type PolicyCreation struct {
	URN           string     `json:"urn" validate:"required,min=1,max=100,slug"`
	Title         string     `json:"title" validate:"required,min=1,max=2000"`
	Description   string     `json:"description" validate:"required,min=1,max=2000"`
	Tags          []string   `json:"tags" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	Status        Status     `json:"status" validate:"required,oneof=active draft archived deleted deprecated"`
	URL           string     `json:"url" validate:"required,http_url"`
	License       License    `json:"license" validate:"required,oneof=MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"`
	Language      string     `json:"language" validate:"omitempty,iso639_1"`
	Content       string     `json:"content" validate:"required"`
	Authority     string     `json:"authority,omitempty"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
}

func (p *PolicyCreation) SetDefaults() {
	if p.Status == "" {
		p.Status = StatusActive
	}
}

// PolicyUpdate carries a partial policy document.
type PolicyUpdate struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=1,max=2000"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	Tags          *[]string  `json:"tags,omitempty" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	Status        *Status    `json:"status,omitempty" validate:"omitempty,oneof=active draft archived deleted deprecated"`
	URL           *string    `json:"url,omitempty" validate:"omitempty,http_url"`
	License       *License   `json:"license,omitempty" validate:"omitempty,oneof=MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"`
	Language      *string    `json:"language,omitempty" validate:"omitempty,iso639_1"`
	Content       *string    `json:"content,omitempty"`
	Authority     *string    `json:"authority,omitempty"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
}

// ArticleCreation is the payload accepted when registering a scientific
// article.
type ArticleCreation struct {
	URN             string     `json:"urn" validate:"required,min=1,max=100,slug"`
	Title           string     `json:"title" validate:"required,min=1,max=2000"`
	Abstract        string     `json:"abstract" validate:"required,min=1,max=2000"`
	Tags            []string   `json:"tags" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	Status          Status     `json:"status" validate:"required,oneof=active draft archived deleted deprecated"`
	URL             string     `json:"url" validate:"required,http_url"`
	License         License    `json:"license" validate:"required,oneof=MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"`
	Language        string     `json:"language" validate:"omitempty,iso639_1"`
	Authors         []string   `json:"authors" validate:"omitempty,dive,min=1,max=2000"`
	Journal         string     `json:"journal,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
}

func (a *ArticleCreation) SetDefaults() {
	if a.Status == "" {
		a.Status = StatusActive
	}
}

// ArticleUpdate carries a partial article.
type ArticleUpdate struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=1,max=2000"`
	Abstract        *string    `json:"abstract,omitempty" validate:"omitempty,min=1,max=2000"`
	Tags            *[]string  `json:"tags,omitempty" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	Status          *Status    `json:"status,omitempty" validate:"omitempty,oneof=active draft archived deleted deprecated"`
	URL             *string    `json:"url,omitempty" validate:"omitempty,http_url"`
	License         *License   `json:"license,omitempty" validate:"omitempty,oneof=MIT Apache-2.0 GPL-3.0 CC-BY-4.0 CC-BY-SA-4.0 Proprietary"`
	Language        *string    `json:"language,omitempty" validate:"omitempty,iso639_1"`
	Authors         *[]string  `json:"authors,omitempty" validate:"omitempty,dive,min=1,max=2000"`
	Journal         *string    `json:"journal,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
}

// OrganizationCreation is the payload accepted when registering an
// organization.
type OrganizationCreation struct {
	URN         string   `json:"urn" validate:"required,min=1,max=100,slug"`
	Name        string   `json:"name" validate:"required,min=1,max=2000"`
	Description string   `json:"description" validate:"required,min=1,max=2000"`
	Tags        []string `json:"tags" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	URL         string   `json:"url" validate:"omitempty,http_url"`
	Industry    string   `json:"industry,omitempty"`
	ImageURL    string   `json:"image_url" validate:"omitempty,http_url"`
	Location    string   `json:"location,omitempty"`
}

// OrganizationUpdate carries a partial organization.
type OrganizationUpdate struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=2000"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=25,uniquefold,dive,min=1,max=2000"`
	URL         *string   `json:"url,omitempty" validate:"omitempty,http_url"`
	Industry    *string   `json:"industry,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty" validate:"omitempty,http_url"`
	Location    *string   `json:"location,omitempty"`
}

// ArtifactCreation registers an artifact whose file already lives at a
// reachable URL. Uploaded files go through the multipart endpoint instead.
type ArtifactCreation struct {
	ParentURN   string `json:"parent_urn" validate:"required,min=5,max=255,urn"`
	Title       string `json:"title" validate:"required,min=1,max=2000"`
	Description string `json:"description" validate:"omitempty,min=1,max=2000"`
	Language    string `json:"language" validate:"omitempty,iso639_1"`
	FileURL     string `json:"file_url" validate:"required,http_url"`
	FileType    string `json:"file_type" validate:"required"`
	FileSize    int64  `json:"file_size" validate:"min=0"`
}
