// Package mal searches the MyAnimeList REST API.
package mal

// Anime is an anime node returned by the MyAnimeList API.
type Anime struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	MainPicture struct {
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"main_picture"`
	AlternativeTitles struct {
		En string `json:"en"`
		Ja string `json:"ja"`
	} `json:"alternative_titles"`
	StartDate   string  `json:"start_date"`
	Synopsis    string  `json:"synopsis"`
	MediaType   string  `json:"media_type"`
	Status      string  `json:"status"`
	NumEpisodes int     `json:"num_episodes"`
	NSFW        string  `json:"nsfw"`
	Genres      []Genre `json:"genres"`
}

type Genre struct {
	Name string `json:"name"`
}

type node struct {
	Node Anime `json:"node"`
}

// SearchResult is a page of the search endpoint.
type SearchResult struct {
	Data    []node `json:"data"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
