package sui

import (
	"context"
	"fmt"
)

var contentOptions = map[string]bool{
	"showContent": true,
	"showType":    true,
}

// GetObject fetches one object with its content. A missing object is not an
// error: the response carries an ObjectError and Content() reports it absent.
func (c *Client) GetObject(ctx context.Context, id string) (ObjectResponse, error) {
	var resp ObjectResponse
	if err := c.call(ctx, "sui_getObject", []any{id, contentOptions}, &resp, true); err != nil {
		return ObjectResponse{}, fmt.Errorf("client.GetObject: %w", err)
	}
	return resp, nil
}

// MultiGetObjects fetches objects in request order, split into batches no
// larger than the configured batch size. Empty input issues no request.
func (c *Client) MultiGetObjects(ctx context.Context, ids []string) ([]ObjectResponse, error) {
	if len(ids) == 0 {
		return []ObjectResponse{}, nil
	}

	out := make([]ObjectResponse, 0, len(ids))
	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))

		var batch []ObjectResponse
		if err := c.call(ctx, "sui_multiGetObjects", []any{ids[start:end], contentOptions}, &batch, true); err != nil {
			return nil, fmt.Errorf("client.MultiGetObjects: %w", err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

// GetDynamicFields lists every dynamic field of parentID, following cursors
// until the last page.
func (c *Client) GetDynamicFields(ctx context.Context, parentID string) ([]DynamicFieldInfo, error) {
	var (
		fields []DynamicFieldInfo
		cursor *string
	)
	for {
		var page dynamicFieldPage
		if err := c.call(ctx, "suix_getDynamicFields", []any{parentID, cursor, dynamicPageSize}, &page, true); err != nil {
			return nil, fmt.Errorf("client.GetDynamicFields: %w", err)
		}
		fields = append(fields, page.Data...)

		if !page.HasNextPage || page.NextCursor == nil {
			return fields, nil
		}
		cursor = page.NextCursor
	}
}
