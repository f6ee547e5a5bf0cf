package campaign

import (
	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

// FieldKind says how a form value is decoded
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindJSON
	KindBool
	KindDate
	KindNumber
)

// Field declares one accepted form field. A field with no platforms is
// common to every platform.
type Field struct {
	Name      string
	Kind      FieldKind
	Default   string
	Platforms []string
}

func (f Field) appliesTo(platform string) bool {
	return len(f.Platforms) == 0 || utils.Contains(f.Platforms, platform)
}

func (f Field) common() bool {
	return len(f.Platforms) == 0
}

// Attachment field names
const (
	FieldMediaFile  = "mediaFile"
	FieldMediaFiles = "mediaFiles"
)

const (
	reddit     = config.PlatformReddit
	facebook   = config.PlatformFacebook
	instagram  = config.PlatformInstagram
	hackernews = config.PlatformHackerNews
)

var formSchema = []Field{
	{Name: "name", Kind: KindScalar},
	{Name: "platform", Kind: KindScalar},
	{Name: "budget", Kind: KindNumber},
	{Name: "budgetType", Kind: KindScalar, Default: "daily"},
	{Name: "currency", Kind: KindScalar, Default: "USD"},
	{Name: "dateRangeStart", Kind: KindDate},
	{Name: "dateRangeEnd", Kind: KindDate},
	{Name: "description", Kind: KindScalar},
	{Name: "enhanceWithAI", Kind: KindBool},

	{Name: "subreddit", Kind: KindScalar, Platforms: []string{reddit}},
	{Name: "postType", Kind: KindScalar, Platforms: []string{reddit, hackernews}},
	{Name: "title", Kind: KindScalar, Platforms: []string{reddit, hackernews}},
	{Name: "content", Kind: KindScalar, Platforms: []string{reddit, hackernews}},

	{Name: "objective", Kind: KindScalar, Platforms: []string{facebook}},
	{Name: "audience", Kind: KindJSON, Platforms: []string{facebook}},
	{Name: "adFormat", Kind: KindScalar, Platforms: []string{facebook}},
	{Name: "creative", Kind: KindScalar, Platforms: []string{facebook}},

	{Name: "contentType", Kind: KindScalar, Platforms: []string{instagram}},
	{Name: "caption", Kind: KindScalar, Platforms: []string{instagram}},
	{Name: "hashtags", Kind: KindScalar, Platforms: []string{instagram}},
	{Name: "targetAudience", Kind: KindJSON, Platforms: []string{instagram}},

	{Name: "url", Kind: KindScalar, Platforms: []string{hackernews}},
	{Name: "submissionContent", Kind: KindScalar, Platforms: []string{hackernews}},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(formSchema))
	for _, f := range formSchema {
		m[f.Name] = f
	}
	return m
}()

// LookupField returns the declaration of a form field
func LookupField(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}
