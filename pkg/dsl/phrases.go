package dsl

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// catalog holds the configuration shared by all phrase handlers.
type catalog struct {
	fields FieldMap
	clock  func() time.Time
}

// Option configures the phrase set.
type Option func(*catalog)

// WithFieldMap sets the public-name to index-field translation table.
func WithFieldMap(m FieldMap) Option {
	return func(c *catalog) {
		c.fields = m
	}
}

// WithClock overrides the time source used by relative-date phrases.
func WithClock(fn func() time.Time) Option {
	return func(c *catalog) {
		if fn != nil {
			c.clock = fn
		}
	}
}

// NewRegistry builds a registry populated with the reference phrase set,
// its describers, and the highlight callback.
func NewRegistry(opts ...Option) *registry.Registry {
	c := &catalog{
		fields: FieldMap{},
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	reg := registry.New()

	reg.RegisterPhrase("match", c.match)
	reg.RegisterPhrase("sort", c.sort)
	reg.RegisterPhrase("paginate", c.paginate)
	reg.RegisterPhrase("source", c.source)
	reg.RegisterPhrase("term", c.term)
	reg.RegisterPhrase("numeric_range", c.numericRange)
	reg.RegisterPhrase("date_range", c.dateRange)
	reg.RegisterPhrase("highlight", c.highlight)
	reg.RegisterPhrase("recent", c.recent)

	reg.RegisterCallback("highlight", c.applyHighlight)

	c.registerDescribers(reg)

	return reg
}

// decode maps loose phrase params onto a typed struct. Weak typing keeps
// JSON/YAML sources interchangeable (e.g. "7" vs 7 for counts).
func decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

type matchParams struct {
	Field string `mapstructure:"field"`
	Query any    `mapstructure:"query"`
}

func (c *catalog) match(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p matchParams
	if err := decode(params, &p); err != nil {
		return err
	}
	if p.Field == "" {
		return fmt.Errorf("match: field is required")
	}

	clause := map[string]any{
		"match": map[string]any{
			c.fields.Resolve(p.Field): map[string]any{"query": p.Query},
		},
	}
	b.Query().Append([]string{"query", "bool", "must"}, clause)
	return nil
}

type sortParams struct {
	Field string `mapstructure:"field"`
	Order string `mapstructure:"order"`
}

func (c *catalog) sort(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p sortParams
	if err := decode(params, &p); err != nil {
		return err
	}
	if p.Field == "" {
		return fmt.Errorf("sort: field is required")
	}
	if p.Order == "" {
		p.Order = "asc"
	}
	if p.Order != "asc" && p.Order != "desc" {
		return fmt.Errorf("sort: order must be asc or desc, got %q", p.Order)
	}

	b.Query().Append([]string{"sort"}, map[string]any{
		c.fields.Resolve(p.Field): map[string]any{"order": p.Order},
	})
	return nil
}

type paginateParams struct {
	Page int `mapstructure:"page"`
	Size int `mapstructure:"size"`
}

func (c *catalog) paginate(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p paginateParams
	if err := decode(params, &p); err != nil {
		return err
	}
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	b.Query().Set(p.Size, "size")
	b.Query().Set((p.Page-1)*p.Size, "from")
	return nil
}

type sourceParams struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

func (c *catalog) source(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p sourceParams
	if err := decode(params, &p); err != nil {
		return err
	}

	src := map[string]any{}
	if len(p.Include) > 0 {
		src["includes"] = c.resolveAll(p.Include)
	}
	if len(p.Exclude) > 0 {
		src["excludes"] = c.resolveAll(p.Exclude)
	}
	if len(src) == 0 {
		return fmt.Errorf("source: include or exclude is required")
	}

	b.Query().Set(src, "_source")
	return nil
}

type termParams struct {
	Field string `mapstructure:"field"`
	Value any    `mapstructure:"value"`
}

func (c *catalog) term(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p termParams
	if err := decode(params, &p); err != nil {
		return err
	}
	if p.Field == "" {
		return fmt.Errorf("term: field is required")
	}

	field := c.fields.Resolve(p.Field)
	b.State().SetComponent(domain.ComponentFilter, "term:"+field, domain.Component{
		Name: "term",
		Body: map[string]any{"term": map[string]any{field: p.Value}},
	})
	return nil
}

type numericRangeParams struct {
	Field string `mapstructure:"field"`
	Min   any    `mapstructure:"min"`
	Max   any    `mapstructure:"max"`
}

func (c *catalog) numericRange(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p numericRangeParams
	if err := decode(params, &p); err != nil {
		return err
	}
	if p.Field == "" {
		return fmt.Errorf("numeric_range: field is required")
	}
	if p.Min == nil && p.Max == nil {
		return fmt.Errorf("numeric_range: min or max is required")
	}

	// min/max restate as range operators.
	bounds := map[string]any{}
	if p.Min != nil {
		bounds["gte"] = p.Min
	}
	if p.Max != nil {
		bounds["lte"] = p.Max
	}

	field := c.fields.Resolve(p.Field)
	b.State().SetComponent(domain.ComponentFilter, "range:"+field, domain.Component{
		Name: "range",
		Body: map[string]any{"range": map[string]any{field: bounds}},
	})
	return nil
}

type dateRangeParams struct {
	Field string `mapstructure:"field"`
	From  string `mapstructure:"from"`
	To    string `mapstructure:"to"`
}

func (c *catalog) dateRange(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p dateRangeParams
	if err := decode(params, &p); err != nil {
		return err
	}
	if p.Field == "" {
		return fmt.Errorf("date_range: field is required")
	}
	if p.From == "" && p.To == "" {
		return fmt.Errorf("date_range: from or to is required")
	}

	bounds := map[string]any{}
	if p.From != "" {
		bounds["gte"] = p.From
	}
	if p.To != "" {
		bounds["lte"] = p.To
	}

	// Shares the range:<field> id with numeric_range, so the later phrase
	// wins for the same field (last-write-wins component semantics).
	field := c.fields.Resolve(p.Field)
	b.State().SetComponent(domain.ComponentFilter, "range:"+field, domain.Component{
		Name: "range",
		Body: map[string]any{"range": map[string]any{field: bounds}},
	})
	return nil
}

type highlightParams struct {
	Fields []string `mapstructure:"fields"`
}

func (c *catalog) highlight(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p highlightParams
	if err := decode(params, &p); err != nil {
		return err
	}
	if len(p.Fields) == 0 {
		return fmt.Errorf("highlight: fields is required")
	}

	fields := make([]any, 0, len(p.Fields))
	for _, f := range c.resolveAll(p.Fields) {
		fields = append(fields, f)
	}
	b.State().SetComponent(domain.ComponentCallback, "highlight", domain.Component{
		Name:   "highlight",
		Config: map[string]any{"fields": fields},
	})
	return nil
}

// applyHighlight runs during the resolve pass, after filters merged.
func (c *catalog) applyHighlight(ctx context.Context, b registry.Builder, comp domain.Component) error {
	raw, _ := comp.Config["fields"].([]any)
	fields := make(map[string]any, len(raw))
	for _, f := range raw {
		name, ok := f.(string)
		if !ok {
			return fmt.Errorf("highlight: field name must be a string, got %T", f)
		}
		fields[name] = map[string]any{}
	}
	b.Query().Set(fields, "highlight", "fields")
	return nil
}

type recentParams struct {
	Field string `mapstructure:"field"`
	Days  int    `mapstructure:"days"`
}

// recent expands into a date_range over the last N days plus a descending
// sort, by injecting both at the front of the queue.
func (c *catalog) recent(ctx context.Context, b registry.Builder, params map[string]any) error {
	var p recentParams
	if err := decode(params, &p); err != nil {
		return err
	}
	if p.Field == "" {
		return fmt.Errorf("recent: field is required")
	}
	if p.Days <= 0 {
		p.Days = 7
	}

	from := c.clock().UTC().AddDate(0, 0, -p.Days).Format(time.RFC3339)
	b.PushFront(
		domain.P("date_range", map[string]any{"field": p.Field, "from": from}),
		domain.P("sort", map[string]any{"field": p.Field, "order": "desc"}),
	)
	return nil
}

func (c *catalog) resolveAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = c.fields.Resolve(n)
	}
	return out
}
