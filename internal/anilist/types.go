package anilist

import (
	"fmt"
	"strconv"
)

// Card is an anime as shown in feeds, search results and genre listings
type Card struct {
	ID            int
	Title         string
	JapaneseTitle string
	Image         string
	Banner        string
	// Episodes is 0 when unknown
	Episodes int
	// Rating is averageScore/10, 0 when AniList has no score
	Rating   float64
	Synopsis string
	Year     int
	Genres   []string
	Status   string
}

// EpisodesLabel renders the episode count, using unknown when it is not known
func (c Card) EpisodesLabel(unknown string) string {
	if c.Episodes <= 0 {
		return unknown
	}
	return strconv.Itoa(c.Episodes)
}

// RatingLabel renders the rating with one decimal, or N/A
func (c Card) RatingLabel() string {
	if c.Rating <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", c.Rating)
}

// Page is one page of a paged query
type Page struct {
	Items       []Card
	HasNextPage bool
	CurrentPage int
	LastPage    int
	Total       int
}

type mediaTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

type coverImage struct {
	ExtraLarge string `json:"extraLarge"`
	Large      string `json:"large"`
	Medium     string `json:"medium"`
}

type media struct {
	ID                int        `json:"id"`
	Title             mediaTitle `json:"title"`
	Episodes          *int       `json:"episodes"`
	Description       *string    `json:"description"`
	AverageScore      *int       `json:"averageScore"`
	CoverImage        coverImage `json:"coverImage"`
	BannerImage       *string    `json:"bannerImage"`
	Genres            []string   `json:"genres"`
	SeasonYear        *int       `json:"seasonYear"`
	Status            string     `json:"status"`
	NextAiringEpisode *struct {
		Episode int `json:"episode"`
	} `json:"nextAiringEpisode"`
}

type pageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

type pageResponse struct {
	Data struct {
		Page struct {
			PageInfo pageInfo `json:"pageInfo"`
			Media    []media  `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
