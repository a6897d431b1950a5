package generate

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/hauspek/reportkit/content"
	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/render"
)

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	r, err := render.NewRenderer(render.WithScale(2))
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return NewGenerator(r, opts...)
}

func sampleContent() *content.Content {
	return &content.Content{
		Project: "Maple St 12",
		Fields:  []content.LabeledField{{Label: "Builder", Value: "Acme Homes"}},
		Locations: []content.Location{
			{Name: "Kitchen", Issues: []content.Issue{
				{ID: "issue-1", Description: "Scratched counter near the sink"},
			}},
		},
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	return func() time.Time { return at }
}

func TestGenerate_Deterministic(t *testing.T) {
	g := newTestGenerator(t, WithValidation(false), WithClock(fixedClock()))

	a, err := g.Generate(context.Background(), Request{Content: sampleContent(), Kind: doc.KindReport})
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Generate(context.Background(), Request{Content: sampleContent(), Kind: doc.KindReport})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes, b.Bytes) {
		t.Fatal("identical requests produced different bytes")
	}
	if a.Filename != b.Filename {
		t.Fatalf("filenames differ: %q vs %q", a.Filename, b.Filename)
	}
}

func TestGenerate_Artifact(t *testing.T) {
	g := newTestGenerator(t, WithValidation(false), WithClock(fixedClock()))

	art, err := g.Generate(context.Background(), Request{
		Content: sampleContent(),
		Kind:    doc.KindReport,
		Version: 7,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(art.Bytes, []byte("%PDF-")) {
		t.Fatal("output is not a PDF stream")
	}
	if art.Pages < 1 {
		t.Fatalf("pages = %d", art.Pages)
	}
	if art.Version != 7 {
		t.Fatalf("version = %d, want 7", art.Version)
	}
	if art.Regions.ByID(doc.CheckboxRegionID("issue-1")) == nil {
		t.Fatal("artifact regions missing the issue checkbox")
	}
	if want := "Maple-St-12_report_20260830-140509.pdf"; art.Filename != want {
		t.Fatalf("filename = %q, want %q", art.Filename, want)
	}
}

func TestGenerate_StaleMarksPruned(t *testing.T) {
	g := newTestGenerator(t, WithValidation(false))

	marks := doc.MarkState{}
	marks.Apply(doc.CheckboxRegionID("issue-1"), doc.SymbolCheck)
	marks.Apply(doc.CheckboxRegionID("deleted-issue"), doc.SymbolCheck)

	if _, err := g.Generate(context.Background(), Request{
		Content: sampleContent(),
		Kind:    doc.KindReport,
		Marks:   marks,
	}); err != nil {
		t.Fatal(err)
	}

	if marks.Has(doc.CheckboxRegionID("deleted-issue"), doc.SymbolCheck) {
		t.Fatal("mark for removed content survived pruning")
	}
	if !marks.Has(doc.CheckboxRegionID("issue-1"), doc.SymbolCheck) {
		t.Fatal("live mark was pruned")
	}
}

func TestGenerate_NilContent(t *testing.T) {
	g := newTestGenerator(t, WithValidation(false))
	if _, err := g.Generate(context.Background(), Request{Kind: doc.KindReport}); err == nil {
		t.Fatal("nil content accepted")
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	g := newTestGenerator(t, WithValidation(false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Generate(ctx, Request{Content: sampleContent(), Kind: doc.KindReport}); err == nil {
		t.Fatal("cancelled context accepted")
	}
}

func TestGenerate_NotifiesListeners(t *testing.T) {
	g := newTestGenerator(t, WithValidation(false))

	var gotName string
	var gotLen int
	id := g.Listeners().Register(func(data []byte, filename string) {
		gotName = filename
		gotLen = len(data)
	})
	defer g.Listeners().Unregister(id)

	art, err := g.Generate(context.Background(), Request{Content: sampleContent(), Kind: doc.KindReport})
	if err != nil {
		t.Fatal(err)
	}
	if gotName != art.Filename || gotLen != len(art.Bytes) {
		t.Fatalf("listener saw %q/%d, want %q/%d", gotName, gotLen, art.Filename, len(art.Bytes))
	}
}

func TestGenerate_ListenerPanicIsContained(t *testing.T) {
	g := newTestGenerator(t, WithValidation(false))

	g.Listeners().Register(func(data []byte, filename string) {
		panic("listener bug")
	})
	var called bool
	g.Listeners().Register(func(data []byte, filename string) { called = true })

	if _, err := g.Generate(context.Background(), Request{Content: sampleContent(), Kind: doc.KindReport}); err != nil {
		t.Fatalf("listener panic leaked into generation: %v", err)
	}
	if !called {
		t.Fatal("panicking listener starved the others")
	}
}

func TestListenerRegistry_Unregister(t *testing.T) {
	g := newTestGenerator(t, WithValidation(false))
	calls := 0
	id := g.Listeners().Register(func([]byte, string) { calls++ })
	g.Listeners().Unregister(id)
	g.Listeners().Notify([]byte("x"), "f.pdf")
	if calls != 0 {
		t.Fatalf("unregistered listener called %d times", calls)
	}
}

func TestFilename_Sanitizes(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cases := []struct {
		project string
		kind    doc.Kind
		want    string
	}{
		{"Maple St 12", doc.KindReport, "Maple-St-12_report_20260102-030405.pdf"},
		{"Hof/Süd: Bau #3", doc.KindSignOff, "Hof-Süd-Bau-3_signoff_20260102-030405.pdf"},
		{"  spaced  out  ", doc.KindReport, "spaced-out_report_20260102-030405.pdf"},
	}
	for _, c := range cases {
		if got := Filename(c.project, c.kind, at); got != c.want {
			t.Errorf("Filename(%q) = %q, want %q", c.project, got, c.want)
		}
	}
}

func TestSession_Staleness(t *testing.T) {
	var s Session
	v1 := s.Next()
	v2 := s.Next()

	if s.Accept(v1) {
		t.Fatal("stale version accepted")
	}
	if !s.Accept(v2) {
		t.Fatal("current version rejected")
	}
	if s.Current() != v2 {
		t.Fatalf("current = %d, want %d", s.Current(), v2)
	}
}
