package mobilizon

// graphqlRequest is the wire envelope for one query.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data   *responseData  `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type responseData struct {
	SearchEvents *searchEvents `json:"searchEvents"`
}

type searchEvents struct {
	Total    int            `json:"total"`
	Elements []eventElement `json:"elements"`
}

// eventElement is one element of the search result. The API interleaves
// groups and other typenames; only "Event" elements carry event fields.
type eventElement struct {
	Typename        string           `json:"__typename"`
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	BeginsOn        string           `json:"beginsOn"`
	EndsOn          string           `json:"endsOn"`
	URL             string           `json:"url"`
	OnlineAddress   string           `json:"onlineAddress"`
	Picture         *picture         `json:"picture"`
	PhysicalAddress *physicalAddress `json:"physicalAddress"`
}

type picture struct {
	URL string `json:"url"`
}

type physicalAddress struct {
	Description string `json:"description"`
	Locality    string `json:"locality"`
}
