package anilist

const airingQuery = `
query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(type: ANIME, status: RELEASING, sort: POPULARITY_DESC, isAdult: false, tag_not_in: ["Ecchi", "Hentai", "Lolicon", "Shotacon"]) {
      id
      title { romaji english native }
      episodes
      description(asHtml: false)
      averageScore
      coverImage { large }
      nextAiringEpisode { episode }
    }
  }
}`

const recommendedQuery = `
query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(type: ANIME, sort: SCORE_DESC, isAdult: false, tag_not_in: ["Ecchi", "Hentai", "Lolicon", "Shotacon"]) {
      id
      title { romaji english native }
      episodes
      description(asHtml: false)
      averageScore
      coverImage { large }
    }
  }
}`

const featuredQuery = `
query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(type: ANIME, sort: TRENDING_DESC, isAdult: false, tag_not_in: ["Ecchi", "Hentai"]) {
      id
      title { english romaji }
      description(asHtml: false)
      bannerImage
      coverImage { large }
      averageScore
      genres
      seasonYear
      status
      episodes
    }
  }
}`

const moviesQuery = `
query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(type: ANIME, format: MOVIE, sort: POPULARITY_DESC, isAdult: false) {
      id
      title { romaji english native }
      episodes
      description(asHtml: false)
      averageScore
      coverImage { large }
    }
  }
}`

const searchQuery = `
query ($search: String, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { total currentPage lastPage hasNextPage perPage }
    media(search: $search, type: ANIME, sort: POPULARITY_DESC, isAdult: false) {
      id
      title { romaji english native }
      episodes
      description
      averageScore
      coverImage { large }
    }
  }
}`

const genreQuery = `
query ($genre: String, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { total currentPage lastPage hasNextPage perPage }
    media(genre: $genre, type: ANIME, sort: POPULARITY_DESC, isAdult: false) {
      id
      title { english romaji }
      coverImage { extraLarge large medium }
      description
      episodes
      genres
      averageScore
    }
  }
}`
