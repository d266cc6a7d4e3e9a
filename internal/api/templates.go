package api

import (
	"fmt"
	"html/template"
	"io/fs"
	"slices"
	"strings"

	"github.com/artemis-health/artemis/internal/i18n"
)

var pageTemplates = []string{
	"home",
	"login",
	"signup",
	"dashboard",
	"track",
	"community",
	"not_found",
}

var partialTemplates = []string{"entry_form"}

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatFloat":   formatTemplateFloat,
		"shortDate":     i18n.ShortDate,
		"dayLabel":      i18n.DayLabel,
		"t":             translateMessage,
		"tf":            translateMessagef,
		"label":         optionLabel,
		"labels":        optionLabels,
		"hasTag":        templateHasTag,
		"painIs":        templatePainIs,
		"isActiveRoute": isActiveTemplateRoute,
	}
}

// Each page is parsed with base.html and every partial, so pages can embed them.
func parsePageTemplates(files fs.FS, funcMap template.FuncMap, pages []string, partials []string) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		patterns := []string{"base.html", page + ".html"}
		for _, partial := range partials {
			patterns = append(patterns, partial+".html")
		}
		parsed, err := template.New("base").Funcs(funcMap).ParseFS(files, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		templates[page] = parsed
	}
	return templates, nil
}

func parsePartialTemplates(files fs.FS, funcMap template.FuncMap, names []string) (map[string]*template.Template, error) {
	partials := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed, err := template.New(name).Funcs(funcMap).ParseFS(files, name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse partial %s: %w", name, err)
		}
		partials[name] = parsed
	}
	return partials, nil
}

func formatTemplateFloat(value float64) string {
	return fmt.Sprintf("%.1f", value)
}

// optionLabel localizes a fixed vocabulary label; custom tags pass through.
func optionLabel(messages map[string]string, raw string) string {
	key := "option." + raw
	if localized := translateMessage(messages, key); localized != key {
		return localized
	}
	return raw
}

func optionLabels(messages map[string]string, values []string) string {
	localized := make([]string, 0, len(values))
	for _, value := range values {
		localized = append(localized, optionLabel(messages, value))
	}
	return strings.Join(localized, ", ")
}

func templateHasTag(selection []string, tag string) bool {
	return slices.Contains(selection, tag)
}

func templatePainIs(selected *int, level int) bool {
	return selected != nil && *selected == level
}

func isActiveTemplateRoute(currentPath string, route string) bool {
	path := strings.TrimSpace(currentPath)
	if path == "" {
		return route == "/"
	}
	if route == "/" {
		return path == "/" || strings.HasPrefix(path, "/?")
	}
	return path == route || strings.HasPrefix(path, route+"?") || strings.HasPrefix(path, route+"/")
}
