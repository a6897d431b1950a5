package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/hauspek/reportkit/composite"
	"github.com/hauspek/reportkit/content"
	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/generate"
	"github.com/hauspek/reportkit/render"
)

var args struct {
	Kind       string  `short:"k" enum:"report,signoff" default:"report" help:"Document kind"`
	Marks      string  `short:"m" type:"existingfile" optional:"" help:"Mark state JSON"`
	Strokes    string  `short:"s" type:"existingfile" optional:"" help:"Stroke log JSON"`
	SurfaceW   float64 `default:"800" help:"Capture surface width in px (stroke log path)"`
	SurfaceH   float64 `default:"1131" help:"Capture surface page height in px"`
	SurfaceGap float64 `default:"16" help:"Capture surface inter-page gap in px"`
	Logo       string  `short:"l" type:"existingfile" optional:"" help:"Header logo image"`
	PhotoDir   string  `short:"p" type:"existingdir" optional:"" help:"Directory photo URLs resolve against"`
	Scale      float64 `default:"4" help:"Raster scale in px per document unit"`
	NoValidate bool    `help:"Skip output validation"`
	Output     string  `short:"o" default:"" help:"Output path (default derived filename)"`

	Input string `arg:"" name:"input" type:"existingfile" help:"Content JSON"`
}

func main() {
	kong.Parse(&args)

	data, err := os.ReadFile(args.Input)
	endIfErr(err)
	c, err := content.Parse(data)
	endIfErr(err)

	var opts []render.Option
	opts = append(opts, render.WithScale(args.Scale))
	if args.Logo != "" {
		if img := loadImage(args.Logo); img != nil {
			opts = append(opts, render.WithLogo(img))
		}
	}
	if args.PhotoDir != "" {
		dir := args.PhotoDir
		opts = append(opts, render.WithPhotoSource(render.PhotoSourceFunc(func(url string) (image.Image, error) {
			f, err := os.Open(filepath.Join(dir, filepath.Base(url)))
			if err != nil {
				return nil, err
			}
			defer f.Close()
			img, _, err := image.Decode(f)
			return img, err
		})))
	}

	r, err := render.NewRenderer(opts...)
	endIfErr(err)

	req := generate.Request{
		Content: c,
		Kind:    doc.Kind(args.Kind),
		Marks:   doc.MarkState{},
	}
	if args.Marks != "" {
		b, err := os.ReadFile(args.Marks)
		endIfErr(err)
		endIfErr(json.Unmarshal(b, &req.Marks))
	}
	if args.Strokes != "" {
		b, err := os.ReadFile(args.Strokes)
		endIfErr(err)
		var sl doc.StrokeLog
		endIfErr(json.Unmarshal(b, &sl))
		req.Strokes = &sl
		req.Surface = &composite.Surface{
			ContainerWidth: args.SurfaceW,
			PageHeight:     args.SurfaceH,
			Gap:            args.SurfaceGap,
		}
	}

	g := generate.NewGenerator(r, generate.WithValidation(!args.NoValidate))
	art, err := g.Generate(context.Background(), req)
	endIfErr(err)

	out := args.Output
	if out == "" {
		out = art.Filename
	}
	endIfErr(os.WriteFile(out, art.Bytes, 0o644))
	fmt.Printf("wrote %s (%d pages, %d bytes)\n", out, art.Pages, len(art.Bytes))
}

func loadImage(path string) image.Image {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("logo unavailable: %v", err)
		return nil
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		log.Printf("logo not decodable: %v", err)
		return nil
	}
	return img
}

func endIfErr(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}
