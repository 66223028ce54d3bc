// Package model defines the data types shared across the logo grouping
// pipeline: discovery candidates, per-site features, similarity edges and
// the final group assignments.
package model

// Source identifies which extractor produced a Candidate.
type Source string

const (
	SourceOrgLogo      Source = "org_logo"
	SourceAppleTouch   Source = "apple_touch"
	SourceIcon         Source = "icon"
	SourceOGImage      Source = "og_image"
	SourceTwitterImage Source = "twitter_image"
	SourceHeaderImg    Source = "header_img"
	SourceCommonPath   Source = "common_path"
	SourceCSSBg        Source = "css_bg"
)

// Context carries extractor-specific diagnostic metadata. Each Source has
// its own concrete Context implementation; unknown/irrelevant fields are
// simply not populated rather than smuggled through a loose map.
type Context interface {
	isContext()
}

// JSONLDContext is attached to org_logo candidates.
type JSONLDContext struct {
	JSONPath    string
	Types       []string
	ScriptIndex int
}

func (JSONLDContext) isContext() {}

// LinkIconContext is attached to apple_touch/icon candidates.
type LinkIconContext struct {
	Rel   []string
	Sizes string
	Type  string
	Color string
}

func (LinkIconContext) isContext() {}

// MetaContext is attached to og_image/twitter_image candidates.
type MetaContext struct {
	Key     string
	Content string
}

func (MetaContext) isContext() {}

// ImgContext is attached to header_img candidates.
type ImgContext struct {
	ID       string
	Class    string
	Alt      string
	InHeader bool
}

func (ImgContext) isContext() {}

// CommonPathContext is attached to common_path candidates.
type CommonPathContext struct {
	DetectedFrom string // "attribute" or "heuristic"
	Value        string
}

func (CommonPathContext) isContext() {}

// ImageInfo is the metadata sniffed (or decoded) from an image payload.
type ImageInfo struct {
	Width       *float64
	Height      *float64
	HasAlpha    bool
	MIME        *string
	AspectRatio *float64
}

// Candidate is a proposed logo URL plus provenance metadata. Candidates
// only exist transiently during selection for a single site.
type Candidate struct {
	Src         string
	Source      Source
	Confidence  float64
	Context     Context
	ResolvedSrc string
	ImageBytes  []byte
	ImageInfo   *ImageInfo
	Score       float64
	HasScore    bool
}

// PerceptualHashes bundles the three fixed-size hex hash strings computed
// for a normalized logo image.
type PerceptualHashes struct {
	AHash string
	PHash string
	DHash string
}

// LogoFeatures is the immutable per-site record produced once a candidate
// has been normalized and fingerprinted.
type LogoFeatures struct {
	Website        string
	OriginalPath   string
	NormalizedPath string
	PreviewPath    string
	Perceptual     PerceptualHashes
	HSVHistogram   []float64
	DominantHues   []int
}

// Edge is a similarity link between two websites, left < right
// lexicographically, with score in [T_LINK, 1].
type Edge struct {
	Left      string
	Right     string
	Score     float64
	Confirmed bool
}

// Group is a connected component of mutually-linked websites.
type Group struct {
	GroupID string
	Members []string
}
