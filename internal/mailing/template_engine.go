// Package mailing renders per-recipient campaign messages with the Liquid
// template language. Rendering is pure: customer context in, body out.
package mailing

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/osteele/liquid"

	"github.com/ignite/engage/internal/domain"
)

// TemplateService compiles and renders Liquid templates with a compile
// cache keyed by the campaign the template belongs to.
type TemplateService struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewTemplateService creates a template service with the campaign filters
// registered.
func NewTemplateService() *TemplateService {
	ts := &TemplateService{engine: liquid.NewEngine()}
	ts.registerFilters()
	return ts
}

func (ts *TemplateService) registerFilters() {
	// Fallback for absent personalization fields: {{ name | default: "there" }}
	ts.engine.RegisterFilter("default", func(value any, fallback string) any {
		if value == nil {
			return fallback
		}
		s := fmt.Sprintf("%v", value)
		if s == "" || s == "<nil>" {
			return fallback
		}
		return value
	})

	// Currency formatting for spend figures: {{ total_spend | currency }}
	ts.engine.RegisterFilter("currency", func(value any) string {
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		case string:
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return v
			}
			f = parsed
		default:
			return fmt.Sprintf("%v", value)
		}
		return fmt.Sprintf("$%.2f", f)
	})

	// First-name extraction from a full name: {{ name | first_name }}
	ts.engine.RegisterFilter("first_name", func(s string) string {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return s
		}
		return fields[0]
	})
}

// Parse compiles a template string and returns any syntax error.
func (ts *TemplateService) Parse(templateStr string) error {
	_, err := ts.engine.ParseString(templateStr)
	return err
}

// Render processes a template with the given context, caching the compiled
// template under cacheKey when one is provided. On a template error it
// returns the raw template text so a bad placeholder degrades the message
// rather than losing the send.
func (ts *TemplateService) Render(cacheKey, templateStr string, ctx map[string]any) (string, error) {
	if cacheKey != "" {
		if cached, ok := ts.cache.Load(cacheKey); ok {
			out, err := cached.(*liquid.Template).RenderString(ctx)
			if err != nil {
				return templateStr, err
			}
			return out, nil
		}
	}

	tpl, err := ts.engine.ParseString(templateStr)
	if err != nil {
		log.Printf("[Mailing] parse error: %v", err)
		return templateStr, err
	}
	if cacheKey != "" {
		ts.cache.Store(cacheKey, tpl)
	}

	out, err := tpl.RenderString(ctx)
	if err != nil {
		log.Printf("[Mailing] render error: %v", err)
		return templateStr, err
	}
	return out, nil
}

// CustomerContext builds the render context for one recipient.
func CustomerContext(c *domain.Customer) map[string]any {
	ctx := map[string]any{
		"name":         c.Name,
		"email":        c.Email,
		"total_spend":  c.TotalSpend,
		"total_orders": c.TotalOrders,
	}
	if c.LastOrderDate != nil {
		ctx["last_order_date"] = c.LastOrderDate.Format(time.DateOnly)
	}
	return ctx
}
