// Package writer serializes rasterized pages into the final PDF byte
// stream. Output is deterministic: the same pages always produce
// byte-identical bytes, so no dates, no random IDs.
package writer

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"io"
)

const pointsPerUnit = 72.0 / 25.4 // document units are millimetres

// Document is the writer's input: page geometry in document units plus the
// rasterized page images.
type Document struct {
	Title string
	PageW float64
	PageH float64
	Pages []*image.RGBA
}

// Config tunes serialization.
type Config struct {
	// Version is the PDF header version. Defaults to 1.7.
	Version string
}

// Writer serializes Documents.
type Writer struct {
	cfg Config
}

// NewWriter constructs a Writer.
func NewWriter(cfg Config) *Writer {
	if cfg.Version == "" {
		cfg.Version = "1.7"
	}
	return &Writer{cfg: cfg}
}

// Write serializes the document to w.
func (wr *Writer) Write(w io.Writer, d *Document) error {
	if len(d.Pages) == 0 {
		return fmt.Errorf("writer: document has no pages")
	}
	b, err := wr.Bytes(d)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Bytes serializes the document and returns the byte stream.
func (wr *Writer) Bytes(d *Document) ([]byte, error) {
	if len(d.Pages) == 0 {
		return nil, fmt.Errorf("writer: document has no pages")
	}

	var buf bytes.Buffer
	offsets := []int{0} // object 0 is the free head; real offsets appended per object

	obj := func(body []byte) {
		offsets = append(offsets, buf.Len())
		n := len(offsets) - 1
		fmt.Fprintf(&buf, "%d 0 obj\n", n)
		buf.Write(body)
		buf.WriteString("\nendobj\n")
	}

	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", wr.cfg.Version)

	wPt := d.PageW * pointsPerUnit
	hPt := d.PageH * pointsPerUnit

	// Object numbering: 1 catalog, 2 page tree, 3 info, then three
	// objects per page (page, contents, image).
	n := len(d.Pages)
	kids := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 4+3*i)
	}

	obj([]byte("<< /Type /Catalog /Pages 2 0 R >>"))
	obj([]byte(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n)))
	obj([]byte(fmt.Sprintf("<< /Title (%s) /Producer (reportkit) >>", escapeString(d.Title))))

	for i, page := range d.Pages {
		pageNum := 4 + 3*i
		contentNum := pageNum + 1
		imageNum := pageNum + 2

		obj([]byte(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] "+
				"/Resources << /XObject << /Im0 %d 0 R >> /ProcSet [/PDF /ImageC] >> "+
				"/Contents %d 0 R >>",
			wPt, hPt, imageNum, contentNum)))

		content := fmt.Sprintf("q\n%.2f 0 0 %.2f 0 0 cm\n/Im0 Do\nQ\n", wPt, hPt)
		obj(streamObj([]byte(fmt.Sprintf("<< /Length %d >>", len(content))), []byte(content)))

		data, err := flateRGB(page)
		if err != nil {
			return nil, fmt.Errorf("writer: compress page %d: %w", i, err)
		}
		dict := fmt.Sprintf(
			"<< /Type /XObject /Subtype /Image /Width %d /Height %d "+
				"/ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode /Interpolate true /Length %d >>",
			page.Bounds().Dx(), page.Bounds().Dy(), len(data))
		obj(streamObj([]byte(dict), data))
	}

	xrefOff := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf,
		"trailer\n<< /Size %d /Root 1 0 R /Info 3 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets), xrefOff)

	return buf.Bytes(), nil
}

func streamObj(dict, data []byte) []byte {
	var b bytes.Buffer
	b.Write(dict)
	b.WriteString("\nstream\n")
	b.Write(data)
	b.WriteString("\nendstream")
	return b.Bytes()
}

// flateRGB strips the alpha channel and zlib-compresses raw RGB rows.
func flateRGB(img *image.RGBA) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rgb := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := img.Pix[off : off+w*4]
		for x := 0; x < w; x++ {
			rgb = append(rgb, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(rgb); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escapeString(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			if r < 128 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
