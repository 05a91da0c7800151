package services

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pemistahl/lingua-go"
	"github.com/samber/lo"
	"gorm.io/datatypes"

	"github.com/solcafe/server/pkg/internal/models"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 5000
	MaxTagsInputLength   = 200

	maxMediumLength          = 100
	maxCollaboratorsLength   = 200
	maxCaptionLength         = 150
	maxOverviewLength        = 3000
	maxTimeRequiredLength    = 50
	maxStepTitleLength       = 100
	maxStepDescriptionLength = 2000
	maxCodeSnippetLength     = 5000
	maxMainContentLength     = 50000
	maxQuoteTextLength       = 500
	maxQuoteAttributionLen   = 100
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w ]+`)
	slugCollapseRe = regexp.MustCompile(` +`)
)

// Slugify derives the url identifier from a title: lowercase, strip
// everything outside [A-Za-z0-9_ ], then collapse space runs into single
// hyphens. Pure; uniqueness is not enforced.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return slug
}

// ParseTags splits a comma-separated input into trimmed tokens. Empty
// tokens are dropped; order and duplicates are kept as the user typed them.
func ParseTags(raw string) ([]string, error) {
	if len(raw) > MaxTagsInputLength {
		return nil, NewValidationError("tags", fmt.Sprintf("is too long (max %d characters)", MaxTagsInputLength))
	}

	return lo.FilterMap(strings.Split(raw, ","), func(token string, _ int) (string, bool) {
		token = strings.TrimSpace(token)
		return token, len(token) > 0
	}), nil
}

func decodeBody[T any](metadata datatypes.JSONMap) (T, error) {
	var body T
	raw, err := jsoniter.Marshal(map[string]any(metadata))
	if err != nil {
		return body, err
	}
	err = jsoniter.Unmarshal(raw, &body)
	return body, err
}

func DecodeArtBody(item models.Post) (models.PostArtBody, error) {
	return decodeBody[models.PostArtBody](item.Metadata)
}

func DecodeEngineeringBody(item models.Post) (models.PostEngineeringBody, error) {
	return decodeBody[models.PostEngineeringBody](item.Metadata)
}

func DecodeNewsBody(item models.Post) (models.PostNewsBody, error) {
	return decodeBody[models.PostNewsBody](item.Metadata)
}

// DeriveCover picks the cover image when the author did not upload one
// explicitly: art falls back to the first gallery image, engineering to the
// first schematic, news to the first related link's image. Only the first
// entry is consulted; a later link's image never becomes the cover.
func DeriveCover(item models.Post) string {
	if len(item.CoverURL) > 0 {
		return item.CoverURL
	}

	switch item.Type {
	case models.PostTypeArt:
		if body, err := DecodeArtBody(item); err == nil && len(body.Images) > 0 {
			return body.Images[0].URL
		}
	case models.PostTypeEngineering:
		if body, err := DecodeEngineeringBody(item); err == nil && len(body.Schematics) > 0 {
			return body.Schematics[0].URL
		}
	case models.PostTypeNews:
		if body, err := DecodeNewsBody(item); err == nil && len(body.RelatedLinks) > 0 {
			return body.RelatedLinks[0].ImageURL
		}
	}

	return ""
}

func validateArtBody(item models.Post, verr *ValidationError) {
	body, err := DecodeArtBody(item)
	if err != nil {
		verr.Add("metadata", "is not a valid art payload")
		return
	}

	if len(body.Medium) > maxMediumLength {
		verr.Add("metadata.medium", fmt.Sprintf("is too long (max %d characters)", maxMediumLength))
	}
	if len(body.Collaborators) > maxCollaboratorsLength {
		verr.Add("metadata.collaborators", fmt.Sprintf("is too long (max %d characters)", maxCollaboratorsLength))
	}
	for idx, image := range body.Images {
		if len(image.Caption) > maxCaptionLength {
			verr.Add(fmt.Sprintf("metadata.images.%d.caption", idx), fmt.Sprintf("is too long (max %d characters)", maxCaptionLength))
		}
	}

	if item.Published && len(body.Images) == 0 {
		verr.Add("metadata.images", "at least one image is required to publish")
	}
}

func validateEngineeringBody(item models.Post, verr *ValidationError) {
	body, err := DecodeEngineeringBody(item)
	if err != nil {
		verr.Add("metadata", "is not a valid engineering payload")
		return
	}

	if len(body.Overview) > maxOverviewLength {
		verr.Add("metadata.overview", fmt.Sprintf("is too long (max %d characters)", maxOverviewLength))
	}
	if len(body.TimeRequired) > maxTimeRequiredLength {
		verr.Add("metadata.timeRequired", fmt.Sprintf("is too long (max %d characters)", maxTimeRequiredLength))
	}
	for idx, step := range body.Steps {
		if len(step.Title) > maxStepTitleLength {
			verr.Add(fmt.Sprintf("metadata.steps.%d.title", idx), fmt.Sprintf("is too long (max %d characters)", maxStepTitleLength))
		}
		if len(step.Description) > maxStepDescriptionLength {
			verr.Add(fmt.Sprintf("metadata.steps.%d.description", idx), fmt.Sprintf("is too long (max %d characters)", maxStepDescriptionLength))
		}
	}
	for idx, snippet := range body.CodeSnippets {
		if len(snippet.Code) > maxCodeSnippetLength {
			verr.Add(fmt.Sprintf("metadata.codeSnippets.%d.code", idx), fmt.Sprintf("is too long (max %d characters)", maxCodeSnippetLength))
		}
	}

	if item.Published {
		if len(strings.TrimSpace(body.Overview)) == 0 {
			verr.Add("metadata.overview", "is required to publish")
		}
		described := lo.ContainsBy(body.Steps, func(step models.PostStep) bool {
			return len(strings.TrimSpace(step.Description)) > 0
		})
		if !described {
			verr.Add("metadata.steps", "at least one step with a description is required to publish")
		}
	}
}

func validateNewsBody(item models.Post, verr *ValidationError) {
	body, err := DecodeNewsBody(item)
	if err != nil {
		verr.Add("metadata", "is not a valid news payload")
		return
	}

	if len(body.MainContent) > maxMainContentLength {
		verr.Add("metadata.mainContent", fmt.Sprintf("is too long (max %d characters)", maxMainContentLength))
	}
	for idx, quote := range body.Quotes {
		if len(quote.Text) > maxQuoteTextLength {
			verr.Add(fmt.Sprintf("metadata.quotes.%d.text", idx), fmt.Sprintf("is too long (max %d characters)", maxQuoteTextLength))
		}
		if len(quote.Attribution) > maxQuoteAttributionLen {
			verr.Add(fmt.Sprintf("metadata.quotes.%d.attribution", idx), fmt.Sprintf("is too long (max %d characters)", maxQuoteAttributionLen))
		}
	}

	if item.Published && len(strings.TrimSpace(body.MainContent)) == 0 && len(body.RelatedLinks) == 0 {
		verr.Add("metadata.mainContent", "content or at least one related link is required to publish")
	}
}

// PreparePost computes the derived fields of a post and validates it
// against the limits of its content type. Pass the previous revision on
// edit so the slug is only recomputed when the title changed.
func PreparePost(item *models.Post, existing *models.Post) error {
	verr := &ValidationError{}

	if !lo.Contains(models.PostTypes, item.Type) {
		verr.Add("type", "must be one of art, engineering, news")
	}
	if len(strings.TrimSpace(item.Title)) == 0 {
		verr.Add("title", "cannot be empty")
	} else if len(item.Title) > MaxTitleLength {
		verr.Add("title", fmt.Sprintf("is too long (max %d characters)", MaxTitleLength))
	}
	if len(strings.TrimSpace(item.Description)) == 0 {
		verr.Add("description", "cannot be empty")
	} else if len(item.Description) > MaxDescriptionLength {
		verr.Add("description", fmt.Sprintf("is too long (max %d characters)", MaxDescriptionLength))
	}

	if item.Metadata == nil {
		item.Metadata = map[string]any{}
	}

	switch item.Type {
	case models.PostTypeArt:
		validateArtBody(*item, verr)
	case models.PostTypeEngineering:
		validateEngineeringBody(*item, verr)
	case models.PostTypeNews:
		validateNewsBody(*item, verr)
	}

	if verr.HasErrors() {
		return verr
	}

	if existing == nil || existing.Title != item.Title {
		item.Slug = Slugify(item.Title)
	} else {
		item.Slug = existing.Slug
	}

	item.CoverURL = DeriveCover(*item)
	item.Language = DetectPostLanguage(*item)

	return nil
}

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

// DetectPostLanguage guesses the language of a post from its textual
// fields. Detection failure just leaves the field empty.
func DetectPostLanguage(item models.Post) string {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.Spanish, lingua.French,
				lingua.German, lingua.Portuguese, lingua.Japanese,
			).
			Build()
	})

	sample := item.Title + " " + item.Description
	if body, err := DecodeNewsBody(item); err == nil && len(body.MainContent) > 0 {
		sample += " " + body.MainContent
	}

	if language, ok := languageDetector.DetectLanguageOf(sample); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}

// CollectMediaPaths lists the stored object paths a post references, for
// cascade removal on delete.
func CollectMediaPaths(item models.Post) []string {
	var paths []string

	switch item.Type {
	case models.PostTypeArt:
		if body, err := DecodeArtBody(item); err == nil {
			for _, image := range body.Images {
				if len(image.Path) > 0 {
					paths = append(paths, image.Path)
				}
			}
		}
	case models.PostTypeEngineering:
		if body, err := DecodeEngineeringBody(item); err == nil {
			for _, schematic := range body.Schematics {
				if len(schematic.Path) > 0 {
					paths = append(paths, schematic.Path)
				}
			}
			for _, step := range body.Steps {
				if len(step.ImageURL) > 0 && !strings.Contains(step.ImageURL, "://") {
					paths = append(paths, step.ImageURL)
				}
			}
		}
	}

	return paths
}
