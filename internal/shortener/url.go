package shortener

// URL is a shortened link together with its visit counter.
type URL struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Count uint64 `json:"count"`
}

// Paginated is one page of a larger, ordered result set.
type Paginated[T any] struct {
	Total     int64  `json:"total"`
	PageCount int64  `json:"pageCount"`
	Next      *int64 `json:"next"`
	Prev      *int64 `json:"prev"`
	Results   []T    `json:"results"`
}
