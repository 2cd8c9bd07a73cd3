package recommend

import (
	"net/url"
	"strconv"
)

// FeedQuery builds the home feed query parameters: when any sources cleared
// the recommendation threshold the feed narrows to them, otherwise it stays
// on generic top headlines.
func (t *Tracker) FeedQuery(page int, pageSize int) (url.Values, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))

	sources, err := t.SourcesParam()
	if err != nil {
		return nil, err
	}
	if sources != "" {
		params.Set("sources", sources)
	}
	return params, nil
}
