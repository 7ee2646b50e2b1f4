// Package anilist searches the Anilist GraphQL API.
package anilist

type date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Anime is the subset of an Anilist media record that search needs.
type Anime struct {
	Title struct {
		Romaji  string `json:"romaji" jsonschema:"description=Romanized title of the anime."`
		English string `json:"english" jsonschema:"description=English title of the anime."`
		Native  string `json:"native" jsonschema:"description=Native title of the anime. Usually in kanji."`
	} `json:"title"`
	ID          int    `json:"id" jsonschema:"description=ID of the anime on Anilist."`
	IDMal       int    `json:"idMal" jsonschema:"description=ID of the anime on MyAnimeList."`
	Description string `json:"description" jsonschema:"description=Description of the anime in html format."`
	CoverImage  struct {
		ExtraLarge string `json:"extraLarge"`
		Large      string `json:"large"`
		Medium     string `json:"medium"`
	} `json:"coverImage"`
	Genres    []string `json:"genres"`
	Format    string   `json:"format" jsonschema:"enum=TV,enum=TV_SHORT,enum=MOVIE,enum=SPECIAL,enum=OVA,enum=ONA,enum=MUSIC"`
	IsAdult   bool     `json:"isAdult"`
	StartDate date     `json:"startDate"`
	Status    string   `json:"status" jsonschema:"enum=FINISHED,enum=RELEASING,enum=NOT_YET_RELEASED,enum=CANCELLED,enum=HIATUS"`
	Episodes  int      `json:"episodes"`
	SiteURL   string   `json:"siteUrl"`
	Synonyms  []string `json:"synonyms"`
	Score     int      `json:"averageScore"`
}

// Name returns the English title when there is one, Romaji otherwise.
func (m *Anime) Name() string {
	if m.Title.English == "" {
		return m.Title.Romaji
	}

	return m.Title.English
}

// Cover returns the largest available cover image.
func (m *Anime) Cover() string {
	switch {
	case m.CoverImage.ExtraLarge != "":
		return m.CoverImage.ExtraLarge
	case m.CoverImage.Large != "":
		return m.CoverImage.Large
	default:
		return m.CoverImage.Medium
	}
}
