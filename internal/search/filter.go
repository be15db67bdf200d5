package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meilisearch/meilisearch-go"
)

// FilterParams narrows a spot search.
type FilterParams struct {
	Query    string
	City     string
	Country  string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Limit    int64
}

// FilterSearch performs a filtered search and returns matching spot ids in
// relevance order. Callers hydrate full rows from the database.
func (c *Client) FilterSearch(params FilterParams) ([]uint, error) {
	var filters []string

	if params.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price >= %g", *params.MinPrice))
	}
	if params.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price <= %g", *params.MaxPrice))
	}
	if params.City != "" {
		filters = append(filters, fmt.Sprintf("city = '%s'", escapeFilterValue(params.City)))
	}
	if params.Country != "" {
		filters = append(filters, fmt.Sprintf("country = '%s'", escapeFilterValue(params.Country)))
	}

	var filterStr string
	if len(filters) > 0 {
		filterStr = strings.Join(filters, " AND ")
	}

	var sort []string
	if params.SortBy != "" {
		sort = []string{params.SortBy}
	}

	if params.Limit == 0 {
		params.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit: params.Limit,
	}
	if filterStr != "" {
		searchReq.Filter = filterStr
	}
	if len(sort) > 0 {
		searchReq.Sort = sort
	}

	searchRes, err := c.client.Index(c.index).Search(params.Query, searchReq)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc SpotDocument
		if err := json.Unmarshal(hitJSON, &doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func escapeFilterValue(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}
