// CLAUDE:SUMMARY Renders a committed selection as a self-contained markdown report for issues and design comments.
// Package report renders a committed selection as markdown: the capture
// metadata, the recovered component information, and the selected
// fragment's content converted from sanitised HTML.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/akhatua2/designx/selection/region"
)

// Renderer converts selections to markdown. Safe for concurrent use.
type Renderer struct {
	sanitizer   *bluemonday.Policy
	mdConverter *converter.Converter
}

// NewRenderer creates a Renderer with the UGC sanitisation policy: the
// selected fragment comes from an arbitrary page, so scripts, event
// handlers and embedded styles are stripped before conversion.
func NewRenderer() *Renderer {
	return &Renderer{
		sanitizer: bluemonday.UGCPolicy(),
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Render produces the markdown report for one selection.
func (r *Renderer) Render(sel region.SelectedRegion) (string, error) {
	var b strings.Builder

	switch sel.Kind {
	case region.KindArea:
		b.WriteString("## Selected area\n\n")
	default:
		b.WriteString("## Selected element\n\n")
	}

	b.WriteString(fmt.Sprintf("- **Path:** `%s`\n", sel.DOMPath))
	if sel.ElementInfo != "" {
		b.WriteString(fmt.Sprintf("- **Element:** `%s`\n", sel.ElementInfo))
	}
	b.WriteString(fmt.Sprintf("- **Bounds:** %.0f,%.0f %.0fx%.0f\n",
		sel.Bounds.X, sel.Bounds.Y, sel.Bounds.Width, sel.Bounds.Height))
	if sel.PageURL != "" {
		b.WriteString(fmt.Sprintf("- **Page:** %s\n", sel.PageURL))
	}
	if sel.Kind == region.KindArea && sel.ElementCount > 0 {
		b.WriteString(fmt.Sprintf("- **Elements:** %d\n", sel.ElementCount))
	}

	if fw := sel.Framework; fw != nil && fw.Detected {
		b.WriteString("\n### Component\n\n")
		name := fw.DisplayName
		if name == "" {
			name = fw.ComponentName
		}
		if name != "" {
			b.WriteString(fmt.Sprintf("- **Name:** `%s`\n", name))
		}
		if fw.FilePath != "" {
			loc := fw.FilePath
			if fw.LineNumber > 0 {
				loc = fmt.Sprintf("%s:%d", loc, fw.LineNumber)
			}
			b.WriteString(fmt.Sprintf("- **Source:** `%s`\n", loc))
		}
		if fw.Version != "" {
			b.WriteString(fmt.Sprintf("- **React:** %s\n", fw.Version))
		}
		if len(fw.Props) > 0 {
			b.WriteString("- **Props:** ")
			b.WriteString(propList(fw.Props))
			b.WriteString("\n")
		}
		if len(fw.Hooks) > 0 {
			b.WriteString(fmt.Sprintf("- **Hooks:** %d (%s)\n", len(fw.Hooks), hookKinds(fw.Hooks)))
		}
	}

	if sel.Element != nil && sel.Element.OuterHTML != "" {
		md, err := r.fragment(sel.Element.OuterHTML, sel.PageURL)
		if err != nil {
			return "", err
		}
		if md != "" {
			b.WriteString("\n### Content\n\n")
			b.WriteString(md)
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

// fragment sanitises and converts one HTML fragment.
func (r *Renderer) fragment(html, pageURL string) (string, error) {
	clean := r.sanitizer.Sanitize(html)
	var opts []converter.ConvertOptionFunc
	if pageURL != "" {
		opts = append(opts, converter.WithDomain(pageURL))
	}
	md, err := r.mdConverter.ConvertString(clean, opts...)
	if err != nil {
		return "", fmt.Errorf("report: convert fragment: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// propList renders prop names sorted lexically, values elided for
// anything non-primitive (they arrive pre-sanitised as placeholders).
func propList(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("`%s=%v`", k, props[k]))
	}
	return strings.Join(parts, ", ")
}

func hookKinds(hooks []region.Hook) string {
	counts := map[string]int{}
	var order []string
	for _, h := range hooks {
		if counts[h.Kind] == 0 {
			order = append(order, h.Kind)
		}
		counts[h.Kind]++
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	return strings.Join(parts, ", ")
}
