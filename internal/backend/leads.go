package backend

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// ListLeads fetches a page of leads. A non-empty query switches to the search
// endpoint, which ignores paging and sorting and returns a best-effort match set.
func (c *Client) ListLeads(ctx context.Context, p LeadListParams) (*LeadPage, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(p.UserID, 10))

	path := "leads"
	if query := strings.TrimSpace(p.Query); query != "" {
		path = "leads/search"
		q.Set("query", query)
	} else {
		q.Set("page", strconv.Itoa(p.Page))
		q.Set("page_size", strconv.Itoa(p.PageSize))
		q.Set("sort_order", p.SortOrder)
		if p.SortKey != "" {
			q.Set("sort_key", p.SortKey)
		}
	}

	var page LeadPage
	if err := c.get(ctx, path, q, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []Lead{}
	}
	return &page, nil
}

func (c *Client) GetLead(ctx context.Context, id int64) (*Lead, error) {
	var lead Lead
	if err := c.get(ctx, idPath("leads/%d/", id), nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) CreateLead(ctx context.Context, in LeadInput) (*Lead, error) {
	var lead Lead
	if err := c.post(ctx, "leads/create/", in, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) UpdateLead(ctx context.Context, id int64, in LeadInput) (*Lead, error) {
	var lead Lead
	if err := c.patch(ctx, idPath("leads/update/%d/", id), in, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) DeleteLead(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("leads/delete/%d/", id))
}

func (c *Client) BulkDeleteLeads(ctx context.Context, ids []int64) error {
	return c.post(ctx, "leads/bulk-delete/", map[string][]int64{"ids": ids}, nil)
}
