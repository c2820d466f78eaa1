// Package notion keeps a Notion database in step with records that carry
// their own key: one page per key, found by a rich_text property.
package notion

import (
	"context"
	"maps"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// API is the part of the Notion SDK a Table drives.
type API interface {
	Query(ctx context.Context, db notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	Update(ctx context.Context, page notionapi.PageID, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

type sdk struct{ c *notionapi.Client }

func (s sdk) Query(ctx context.Context, db notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return s.c.Database.Query(ctx, db, req)
}

func (s sdk) Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	return s.c.Page.Create(ctx, req)
}

func (s sdk) Update(ctx context.Context, page notionapi.PageID, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	return s.c.Page.Update(ctx, page, req)
}

// Option configures a Table.
type Option func(*Table)

// WithRateLimit overrides the default 3 req/s. Zero disables throttling.
func WithRateLimit(rps float64) Option {
	return func(t *Table) {
		t.limiter = nil
		if rps > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// Table is a Notion database whose pages are addressed by the text of one
// rich_text property.
type Table struct {
	api     API
	db      notionapi.DatabaseID
	key     string
	limiter *rate.Limiter
}

// Written is the outcome of writing one keyed page.
type Written struct {
	PageID  string
	Created bool
}

// Open returns a Table over database db for an integration token.
func Open(token, db, keyProperty string, opts ...Option) *Table {
	return NewTable(sdk{notionapi.NewClient(notionapi.Token(token))}, db, keyProperty, opts...)
}

// NewTable returns a Table driving api, throttled to Notion's published
// 3 req/s unless overridden.
func NewTable(api API, db, keyProperty string, opts ...Option) *Table {
	t := &Table{
		api:     api,
		db:      notionapi.DatabaseID(db),
		key:     keyProperty,
		limiter: rate.NewLimiter(3, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Put writes props to the page for key, creating the page when none
// exists. The key property itself is always set from key.
func (t *Table) Put(ctx context.Context, key string, props notionapi.Properties) (Written, error) {
	if key == "" {
		return Written{}, eris.Errorf("notion: empty %s", t.key)
	}
	props = maps.Clone(props)
	if props == nil {
		props = notionapi.Properties{}
	}
	props[t.key] = Text(key)

	existing, err := t.find(ctx, key)
	if err != nil {
		return Written{}, err
	}

	if err := t.wait(ctx); err != nil {
		return Written{}, err
	}
	if existing != "" {
		page, err := t.api.Update(ctx, existing, &notionapi.PageUpdateRequest{Properties: props})
		if err != nil {
			return Written{}, eris.Wrapf(err, "notion: update %s=%s", t.key, key)
		}
		return Written{PageID: string(page.ID)}, nil
	}

	page, err := t.api.Create(ctx, &notionapi.PageCreateRequest{
		Parent:     notionapi.Parent{Type: notionapi.ParentTypeDatabaseID, DatabaseID: t.db},
		Properties: props,
	})
	if err != nil {
		return Written{}, eris.Wrapf(err, "notion: create %s=%s", t.key, key)
	}
	return Written{PageID: string(page.ID), Created: true}, nil
}

// Keys walks every page and maps each non-empty key to its page id.
func (t *Table) Keys(ctx context.Context) (map[string]string, error) {
	keys := make(map[string]string)
	var cursor notionapi.Cursor
	for {
		if err := t.wait(ctx); err != nil {
			return nil, err
		}
		resp, err := t.api.Query(ctx, t.db, &notionapi.DatabaseQueryRequest{StartCursor: cursor, PageSize: 100})
		if err != nil {
			return nil, eris.Wrapf(err, "notion: list %s", t.db)
		}
		for _, p := range resp.Results {
			if k := keyOf(p, t.key); k != "" {
				keys[k] = string(p.ID)
			}
		}
		if !resp.HasMore {
			return keys, nil
		}
		cursor = resp.NextCursor
	}
}

func (t *Table) find(ctx context.Context, key string) (notionapi.PageID, error) {
	if err := t.wait(ctx); err != nil {
		return "", err
	}
	resp, err := t.api.Query(ctx, t.db, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: t.key,
			RichText: &notionapi.TextFilterCondition{Equals: key},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", eris.Wrapf(err, "notion: find %s=%s", t.key, key)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return notionapi.PageID(resp.Results[0].ID), nil
}

func (t *Table) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "notion: rate limit")
	}
	return nil
}

func keyOf(p notionapi.Page, property string) string {
	switch prop := p.Properties[property].(type) {
	case *notionapi.RichTextProperty:
		return plainText(prop.RichText)
	case notionapi.RichTextProperty:
		return plainText(prop.RichText)
	}
	return ""
}
