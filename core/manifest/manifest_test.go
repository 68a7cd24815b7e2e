package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "plain", title: "Quiz A", want: "quiz-a"},
		{name: "already lower", title: "homework", want: "homework"},
		{name: "punctuation runs", title: "Unit 1: Intro!!  (part 2)", want: "unit-1-intro-part-2"},
		{name: "leading & trailing junk", title: "--Final Project--", want: "final-project"},
		{name: "all junk", title: "!!!", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	m := Manifest{
		Organization: &Organization{
			Title: "Unit 1",
			Items: []Item{
				{Title: "Quiz A"},
				{Title: "Quiz B", IdentifierRef: strPtr("res-b")},
			},
		},
		Resources: []Resource{
			{Identifier: "res-b", Href: "b.html"},
		},
	}

	records, err := Flatten(m)
	if err != nil {
		t.Fatalf("Flatten() unexpected error: %v", err)
	}
	assert.Len(t, records, 2)

	assert.Equal(t, "Quiz A", records[0].Title)
	assert.Equal(t, "quiz-a", records[0].Slug)
	assert.Nil(t, records[0].Locator)
	assert.Equal(t, "Complete the task: Quiz A\n\n(Imported href: n/a)", records[0].Prompt)

	assert.Equal(t, "Quiz B", records[1].Title)
	assert.Equal(t, "quiz-b", records[1].Slug)
	if assert.NotNil(t, records[1].Locator) {
		assert.Equal(t, "b.html", *records[1].Locator)
	}
	assert.Equal(t, "Complete the task: Quiz B\n\n(Imported href: b.html)", records[1].Prompt)
}

// one record per item node, parent before children, siblings in document
// order, regardless of nesting depth.
func TestFlatten_preOrder(t *testing.T) {
	m := Manifest{
		Organization: &Organization{
			Title: "Deep Course",
			Items: []Item{
				{
					Title: "Module 1",
					Items: []Item{
						{Title: "Lesson 1.1", Items: []Item{
							{Title: "Exercise 1.1.1"},
							{Title: "Exercise 1.1.2"},
						}},
						{Title: "Lesson 1.2"},
					},
				},
				{Title: "Module 2", Items: []Item{
					{Title: "Lesson 2.1"},
				}},
			},
		},
	}

	records, err := Flatten(m)
	if err != nil {
		t.Fatalf("Flatten() unexpected error: %v", err)
	}

	wantOrder := []string{
		"Module 1", "Lesson 1.1", "Exercise 1.1.1", "Exercise 1.1.2", "Lesson 1.2",
		"Module 2", "Lesson 2.1",
	}
	if len(records) != len(wantOrder) {
		t.Fatalf("Flatten() emitted %d records, want %d", len(records), len(wantOrder))
	}
	for i, want := range wantOrder {
		if records[i].Title != want {
			t.Errorf("records[%d].Title = %q, want %q", i, records[i].Title, want)
		}
	}
}

func TestFlatten_malformed(t *testing.T) {
	records, err := Flatten(Manifest{})
	if err != ErrMalformedPackage {
		t.Errorf("Flatten() error = %v, want ErrMalformedPackage", err)
	}
	if len(records) != 0 {
		t.Errorf("Flatten() emitted %d records on malformed input, want 0", len(records))
	}
}

func TestFlatten_unresolvedReference(t *testing.T) {
	m := Manifest{
		Organization: &Organization{
			Title: "Unit",
			Items: []Item{
				{Title: "Dangling", IdentifierRef: strPtr("gone")},
				{Title: "Untitled is defaulted", IdentifierRef: nil},
			},
		},
		Resources: []Resource{{Identifier: "other", Href: "x.html"}},
	}

	records, err := Flatten(m)
	if err != nil {
		t.Fatalf("Flatten() unexpected error: %v", err)
	}
	assert.Len(t, records, 2)
	// a dangling identifierref is not an error; the record has no locator
	assert.Nil(t, records[0].Locator)
	assert.Equal(t, "Complete the task: Dangling\n\n(Imported href: n/a)", records[0].Prompt)
}
