// Package manifest defines the decoded shape of a course package manifest
// and flattens it into an ordered list of importable assignment records.
package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedPackage is returned when the decoded tree lacks the expected
// top-level organization structure. No records are emitted in that case.
var ErrMalformedPackage = errors.New("malformed package: missing organization structure")

type (
	// Manifest is the navigable tree yielded by the package decoder.
	Manifest struct {
		Organization *Organization
		Resources    []Resource
	}

	Organization struct {
		Title string
		Items []Item
	}

	// Item is a node in the organization tree. Items is always present
	// (possibly empty); IdentifierRef is nil for pure container/header items.
	Item struct {
		Title         string
		IdentifierRef *string
		Items         []Item
	}

	Resource struct {
		Identifier string
		Href       string
	}

	// Record is one importable assignment, emitted in pre-order traversal
	// order. Locator is nil when the item carries no resolvable resource
	// reference.
	Record struct {
		Title   string
		Slug    string
		Locator *string
		Prompt  string
	}
)

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title, collapses every run of characters outside
// [a-z0-9] into a single hyphen and strips leading/trailing hyphens.
// Two items with near-identical titles can yield the same slug; uniqueness
// is not guaranteed.
func Slugify(title string) string {
	slug := slugRegex.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// Flatten walks the organization's item tree depth-first, parent before its
// children and siblings in document order, and emits one Record per item
// node. Item resource references are resolved against the resource table;
// a missing match yields a nil locator, not an error.
func Flatten(m Manifest) ([]Record, error) {
	if m.Organization == nil {
		return nil, ErrMalformedPackage
	}

	hrefs := make(map[string]string, len(m.Resources))
	for _, res := range m.Resources {
		hrefs[res.Identifier] = res.Href
	}

	var records []Record
	var collect func(items []Item)
	collect = func(items []Item) {
		for _, it := range items {
			title := it.Title
			if title == "" {
				title = "(untitled)"
			}

			var locator *string
			if it.IdentifierRef != nil {
				if href, ok := hrefs[*it.IdentifierRef]; ok && href != "" {
					href := href
					locator = &href
				}
			}

			records = append(records, Record{
				Title:   title,
				Slug:    Slugify(title),
				Locator: locator,
				Prompt:  prompt(title, locator),
			})
			collect(it.Items)
		}
	}
	collect(m.Organization.Items)

	return records, nil
}

func prompt(title string, locator *string) string {
	href := "n/a"
	if locator != nil {
		href = *locator
	}
	return fmt.Sprintf("Complete the task: %s\n\n(Imported href: %s)", title, href)
}
