package utils

import (
	"net/url"
	"strconv"
)

// MaxPage bounds page numbers so offsets stay well inside int range.
const MaxPage = 1_000_000

// PageParams reads page and per_page from q. Missing, malformed or
// non-positive values fall back to 1 and defaultPerPage. page is capped at MaxPage.
func PageParams(q url.Values, defaultPerPage int) (page, perPage int) {
	return min(positiveInt(q.Get("page"), 1), MaxPage), positiveInt(q.Get("per_page"), defaultPerPage)
}

func positiveInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func PageOffset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	return (min(page, MaxPage) - 1) * perPage
}
