package anilist

import "fmt"

var animeSubquery = `
id
idMal
title {
	romaji
	english
	native
}
description(asHtml: false)
genres
format
isAdult
coverImage {
	extraLarge
	large
	medium
}
startDate {
	year
	month
	day
}
status
synonyms
siteUrl
episodes
averageScore
`

var searchByNameQuery = fmt.Sprintf(`
query ($query: String) {
	Page (page: 1, perPage: 30) {
		media (search: $query, type: ANIME) {
			%s
		}
	}
}
`, animeSubquery)
