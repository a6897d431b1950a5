package content

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	data := []byte(`{
		"project": "Maple St 12",
		"fields": [{"label": "Builder", "value": "Acme Homes"}],
		"locations": [
			{"name": "Kitchen", "issues": [
				{"id": "issue-1", "description": "Scratched counter", "photos": [{"url": "a.jpg", "caption": "close-up"}]}
			]}
		]
	}`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := &Content{
		Project: "Maple St 12",
		Fields:  []LabeledField{{Label: "Builder", Value: "Acme Homes"}},
		Locations: []Location{{
			Name: "Kitchen",
			Issues: []Issue{{
				ID:          "issue-1",
				Description: "Scratched counter",
				Photos:      []Photo{{URL: "a.jpg", Caption: "close-up"}},
			}},
		}},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedLocations_NotesLast(t *testing.T) {
	c := &Content{Locations: []Location{
		{Name: "Notes"},
		{Name: "Kitchen"},
		{Name: "Garage"},
	}}
	got := c.SortedLocations()
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	want := []string{"Kitchen", "Garage", "Notes"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	// Input order of regular locations is preserved, and the input
	// itself is untouched.
	if c.Locations[0].Name != "Notes" {
		t.Fatalf("SortedLocations mutated the input")
	}
}

func TestPlainText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain words", "plain words"},
		{"  padded  ", "padded"},
		{"<p>first</p><p>second</p>", "first second"},
		{"a <b>bold</b> claim", "a bold claim"},
		{"lines<br>broken", "lines broken"},
	}
	for _, c := range cases {
		if got := PlainText(c.in); got != c.want {
			t.Errorf("PlainText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNotesSpans(t *testing.T) {
	paras := NotesSpans("# Punch list\n\nFix the *loose* rail\n\n- item one\n- item two")
	if len(paras) != 4 {
		t.Fatalf("expected 4 paragraphs, got %d: %+v", len(paras), paras)
	}
	if !paras[0][0].Bold || paras[0][0].Text != "Punch list" {
		t.Fatalf("heading should be bold: %+v", paras[0])
	}

	var sawItalic bool
	for _, sp := range paras[1] {
		if sp.Italic {
			sawItalic = true
		}
	}
	if !sawItalic {
		t.Fatalf("emphasis lost: %+v", paras[1])
	}

	if paras[2][0].Text != "• item one" {
		t.Fatalf("list bullet missing: %q", paras[2][0].Text)
	}
}
