package models

import (
	"gorm.io/datatypes"
)

const (
	PostTypeArt         = "art"
	PostTypeEngineering = "engineering"
	PostTypeNews        = "news"
)

var PostTypes = []string{PostTypeArt, PostTypeEngineering, PostTypeNews}

type Post struct {
	BaseModel

	Type        string                      `json:"type"`
	Slug        string                      `json:"slug" gorm:"index"`
	Title       string                      `json:"title"`
	Description string                      `json:"description"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	CoverURL    string                      `json:"cover_url"`
	Language    string                      `json:"language"`
	Published   bool                        `json:"published"`

	// Shape keyed by Type, see the typed body structs below
	Metadata datatypes.JSONMap `json:"metadata"`

	ProfileID uint    `json:"profile_id"`
	Profile   Profile `json:"profile"`
}

func (v Post) ResourceOwner() uint {
	return v.ProfileID
}

func (v Post) ResourcePublic() bool {
	return v.Published
}

type PostImage struct {
	URL     string `json:"url"`
	Path    string `json:"path"`
	Caption string `json:"caption"`
}

type PostArtBody struct {
	Images        []PostImage `json:"images"`
	Medium        string      `json:"medium"`
	Collaborators string      `json:"collaborators"`
}

type PostMaterial struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

type PostStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type PostCodeSnippet struct {
	Language    string `json:"language"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type PostEngineeringBody struct {
	Overview     string            `json:"overview"`
	Difficulty   string            `json:"difficulty"`
	TimeRequired string            `json:"timeRequired"`
	Materials    []PostMaterial    `json:"materials"`
	Steps        []PostStep        `json:"steps"`
	CodeSnippets []PostCodeSnippet `json:"codeSnippets"`
	Schematics   []PostImage       `json:"schematics"`
}

type PostSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type PostQuote struct {
	Text        string `json:"text"`
	Attribution string `json:"attribution"`
}

type PostRelatedLink struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Comment  string `json:"comment"`
	ImageURL string `json:"imageUrl"`
}

type PostNewsBody struct {
	MainContent  string            `json:"mainContent"`
	Sources      []PostSource      `json:"sources"`
	Quotes       []PostQuote       `json:"quotes"`
	RelatedLinks []PostRelatedLink `json:"relatedLinks"`
}
