package writer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"
)

func testDoc(pages int) *Document {
	d := &Document{Title: "Site Report", PageW: 210, PageH: 297}
	for i := 0; i < pages; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 84, 119))
		draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
		img.SetRGBA(10+i, 10, color.RGBA{192, 57, 43, 255})
		d.Pages = append(d.Pages, img)
	}
	return d
}

func TestBytes_Deterministic(t *testing.T) {
	wr := NewWriter(Config{})
	a, err := wr.Bytes(testDoc(3))
	if err != nil {
		t.Fatal(err)
	}
	b, err := wr.Bytes(testDoc(3))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("identical documents produced different bytes")
	}
}

func TestBytes_Structure(t *testing.T) {
	wr := NewWriter(Config{})
	b, err := wr.Bytes(testDoc(2))
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)

	if !strings.HasPrefix(s, "%PDF-1.7\n") {
		t.Fatalf("bad header: %q", s[:16])
	}
	if !strings.HasSuffix(s, "%%EOF\n") {
		t.Fatal("missing EOF marker")
	}
	for _, want := range []string{
		"/Type /Catalog",
		"/Count 2",
		"/Title (Site Report)",
		"/MediaBox [0 0 595.28 841.89]",
		"/ColorSpace /DeviceRGB",
		"/Filter /FlateDecode",
		"startxref",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(s, "/Type /Page "); got != 2 {
		t.Errorf("page object count = %d, want 2", got)
	}
}

func TestBytes_XrefOffsetsMatchObjects(t *testing.T) {
	wr := NewWriter(Config{})
	b, err := wr.Bytes(testDoc(1))
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)

	// startxref must point at the xref keyword.
	i := strings.LastIndex(s, "startxref\n")
	if i < 0 {
		t.Fatal("no startxref")
	}
	var off int
	rest := s[i+len("startxref\n"):]
	if _, err := fmt.Sscan(rest, &off); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s[off:], "xref\n") {
		t.Fatalf("startxref %d does not point at xref table", off)
	}

	// Every recorded offset must point at "N 0 obj".
	tbl := s[off:]
	lines := strings.Split(tbl, "\n")
	for n, line := range lines[3:] { // skip "xref", "0 N", free head
		if len(line) < 10 || !strings.HasSuffix(line, " n ") {
			break
		}
		var objOff int
		if _, err := fmt.Sscanf(line, "%d", &objOff); err != nil {
			t.Fatal(err)
		}
		want := []byte{byte('1' + n), ' ', '0', ' ', 'o', 'b', 'j'}
		if !bytes.HasPrefix(b[objOff:], want) {
			t.Errorf("object %d: offset %d points at %q", n+1, objOff, b[objOff:objOff+8])
		}
	}
}

// A page handed over as a sub-image must compress the same pixels as an
// equivalent zero-origin copy; the row base has to honor the view's
// bounds, not byte zero of the backing array.
func TestFlateRGB_SubImage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for i := range base.Pix {
		base.Pix[i] = byte(i * 7)
	}
	sub := base.SubImage(image.Rect(5, 7, 15, 17)).(*image.RGBA)

	plain := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(plain, plain.Bounds(), sub, sub.Bounds().Min, draw.Src)

	a, err := flateRGB(sub)
	if err != nil {
		t.Fatal(err)
	}
	b, err := flateRGB(plain)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("sub-image rows read from the wrong offset")
	}
}

func TestBytes_EmptyDocument(t *testing.T) {
	wr := NewWriter(Config{})
	if _, err := wr.Bytes(&Document{Title: "x", PageW: 210, PageH: 297}); err == nil {
		t.Fatal("zero-page document accepted")
	}
}

func TestBytes_TitleEscaping(t *testing.T) {
	wr := NewWriter(Config{})
	d := testDoc(1)
	d.Title = `Hof (Süd) \ A`
	b, err := wr.Bytes(d)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(`/Title (Hof \(Sd\) \\ A)`)) {
		t.Fatal("title not escaped to 7-bit with delimiters quoted")
	}
}

func TestNewWriter_DefaultVersion(t *testing.T) {
	b, err := NewWriter(Config{Version: "1.4"}).Bytes(testDoc(1))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-1.4")) {
		t.Fatalf("version override ignored: %q", b[:8])
	}
}
