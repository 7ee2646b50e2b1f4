package mal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/source"
)

const fields = "alternative_titles,start_date,synopsis,media_type,status,num_episodes,nsfw,genres"

func (s *Source) Search(ctx context.Context, query string) ([]*source.Item, error) {
	u, err := url.Parse(s.endpoint + "/anime")
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("limit", "20")
	q.Set("fields", fields)
	q.Set("nsfw", "true")
	u.RawQuery = q.Encode()

	var result SearchResult
	if err = s.get(ctx, u.String(), &result); err != nil {
		return nil, err
	}

	if result.Error != "" {
		return nil, source.Providerf(s.id, "%s: %s", result.Error, result.Message)
	}

	return lo.Map(result.Data, func(d node, _ int) *source.Item {
		return toItem(&d.Node)
	}), nil
}

func toItem(a *Anime) *source.Item {
	labels := []string{strings.ToUpper(a.MediaType)}
	labels = append(labels, lo.Map(a.Genres, func(g Genre, _ int) string { return g.Name })...)
	if a.NSFW != "" && a.NSFW != "white" {
		labels = append(labels, "NSFW")
	}

	cover := a.MainPicture.Large
	if cover == "" {
		cover = a.MainPicture.Medium
	}

	item := &source.Item{
		ID:          strconv.Itoa(a.ID),
		Title:       a.Title,
		Category:    source.Categories(labels...),
		Cover:       cover,
		URL:         fmt.Sprintf("https://myanimelist.net/anime/%d", a.ID),
		Description: strings.TrimSpace(a.Synopsis),
		Extra:       map[string]string{},
	}

	if len(a.StartDate) >= 4 {
		item.Year = a.StartDate[:4]
	}
	if a.AlternativeTitles.En != "" {
		item.Extra["english"] = a.AlternativeTitles.En
	}
	if a.AlternativeTitles.Ja != "" {
		item.Extra["native"] = a.AlternativeTitles.Ja
	}
	if a.NumEpisodes > 0 {
		item.Extra["episodes"] = strconv.Itoa(a.NumEpisodes)
	}
	if a.Status != "" {
		item.Extra["status"] = strings.ReplaceAll(a.Status, "_", " ")
	}

	return item
}
