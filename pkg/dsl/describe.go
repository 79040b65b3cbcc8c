package dsl

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/registry"
)

// registerDescribers attaches a markdown description producer to every
// phrase in the set. Description lookups are strict: asking the engine to
// describe a phrase outside this table is a hard error, unlike execution
// dispatch which skips unknown names.
func (c *catalog) registerDescribers(reg *registry.Registry) {
	reg.RegisterDescriber("match", func(params map[string]any) (string, error) {
		var p matchParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		return fmt.Sprintf("- **match** `%s` against `%v`", p.Field, p.Query), nil
	})

	reg.RegisterDescriber("sort", func(params map[string]any) (string, error) {
		var p sortParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		if p.Order == "" {
			p.Order = "asc"
		}
		return fmt.Sprintf("- **sort** by `%s` (%s)", p.Field, p.Order), nil
	})

	reg.RegisterDescriber("paginate", func(params map[string]any) (string, error) {
		var p paginateParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		if p.Size <= 0 {
			p.Size = 10
		}
		if p.Page <= 0 {
			p.Page = 1
		}
		return fmt.Sprintf("- **page** %d, %d results per page", p.Page, p.Size), nil
	})

	reg.RegisterDescriber("source", func(params map[string]any) (string, error) {
		var p sourceParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		parts := []string{}
		if len(p.Include) > 0 {
			parts = append(parts, fmt.Sprintf("include `%s`", strings.Join(p.Include, "`, `")))
		}
		if len(p.Exclude) > 0 {
			parts = append(parts, fmt.Sprintf("exclude `%s`", strings.Join(p.Exclude, "`, `")))
		}
		return "- **source** " + strings.Join(parts, ", "), nil
	})

	reg.RegisterDescriber("term", func(params map[string]any) (string, error) {
		var p termParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		return fmt.Sprintf("- **filter** `%s` equal to `%v`", p.Field, p.Value), nil
	})

	reg.RegisterDescriber("numeric_range", func(params map[string]any) (string, error) {
		var p numericRangeParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		return fmt.Sprintf("- **filter** `%s` between `%v` and `%v`", p.Field, orAny(p.Min), orAny(p.Max)), nil
	})

	reg.RegisterDescriber("date_range", func(params map[string]any) (string, error) {
		var p dateRangeParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		return fmt.Sprintf("- **filter** `%s` from `%s` to `%s`", p.Field, orAnyStr(p.From), orAnyStr(p.To)), nil
	})

	reg.RegisterDescriber("highlight", func(params map[string]any) (string, error) {
		var p highlightParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		return fmt.Sprintf("- **highlight** matches in `%s`", strings.Join(p.Fields, "`, `")), nil
	})

	reg.RegisterDescriber("recent", func(params map[string]any) (string, error) {
		var p recentParams
		if err := decode(params, &p); err != nil {
			return "", err
		}
		if p.Days <= 0 {
			p.Days = 7
		}
		return fmt.Sprintf("- **recent** `%s` within the last %d days, newest first", p.Field, p.Days), nil
	})
}

func orAny(v any) any {
	if v == nil {
		return "*"
	}
	return v
}

func orAnyStr(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
