package handlers

// URLBody is the public representation of a short URL.
type URLBody struct {
	ID       string `doc:"The short code"          example:"x7Bq2L"                             json:"id"`
	ShortURL string `doc:"The full short URL"      example:"http://localhost:8888/x7Bq2L"       json:"shortUrl"`
	LongURL  string `doc:"The original URL"        example:"https://example.com/very/long/path" json:"longUrl"`
	Count    uint64 `doc:"Number of recorded visits" example:"3"                                json:"count"`
}

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	User string `cookie:"auth" doc:"Anonymous user token"`
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" format:"uri" json:"url" maxLength:"2048"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Headers struct {
		Location  string `doc:"The short URL location"            header:"Location"`
		SetCookie string `doc:"Issued when the user token is new" header:"Set-Cookie"`
	}
	Body URLBody
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"x7Bq2L" path:"code"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// ListURLsRequest selects a page of the caller's history.
type ListURLsRequest struct {
	User string `cookie:"auth" doc:"Anonymous user token"`
	Page int64  `default:"0" doc:"Zero-based page number" maximum:"368934881474191031" minimum:"0" query:"page"`
}

// ListURLsResponse is one page of the caller's history, newest first.
type ListURLsResponse struct {
	Headers struct {
		SetCookie string `doc:"Issued when the user token is new" header:"Set-Cookie"`
	}
	Body struct {
		Total     int64     `doc:"Number of URLs in the history"  json:"total"`
		PageCount int64     `doc:"Number of full pages"           json:"pageCount"`
		Next      *int64    `doc:"Next page number, if any"       json:"next"`
		Prev      *int64    `doc:"Previous page number, if any"   json:"prev"`
		Results   []URLBody `doc:"URLs on this page"              json:"results"`
	}
}
