package config

// Platform describes one advertising platform a campaign can target
type Platform struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BrandColor  string `json:"brandColor"`
}

const (
	PlatformReddit     = "reddit"
	PlatformFacebook   = "facebook"
	PlatformInstagram  = "instagram"
	PlatformHackerNews = "hackernews"
)

var platforms = []Platform{
	{ID: PlatformReddit, Name: "Reddit", Description: "Community discussions", BrandColor: "#FF4500"},
	{ID: PlatformFacebook, Name: "Facebook", Description: "Social advertising", BrandColor: "#1877F2"},
	{ID: PlatformInstagram, Name: "Instagram", Description: "Visual content", BrandColor: "#E4405F"},
	{ID: PlatformHackerNews, Name: "Hacker News", Description: "Tech community", BrandColor: "#FF6600"},
}

// GetPlatforms returns the supported platforms in display order
func GetPlatforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// GetPlatformByID looks up a platform by its id
func GetPlatformByID(id string) (Platform, bool) {
	for _, p := range platforms {
		if p.ID == id {
			return p, true
		}
	}
	return Platform{}, false
}
