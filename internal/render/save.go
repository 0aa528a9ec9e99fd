package render

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// Save renders the figure twice, once to base.png and once to base.pdf.
// The render callback draws onto a fresh canvas for each format.
func Save(base string, opts Options, render func(draw.Canvas) error) error {
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return eris.Wrap(err, "render: create output directory")
	}

	if err := savePNG(base+".png", opts, render); err != nil {
		return err
	}
	if err := savePDF(base+".pdf", opts, render); err != nil {
		return err
	}
	zap.L().Info("wrote figure",
		zap.String("png", base+".png"),
		zap.String("pdf", base+".pdf"),
	)
	return nil
}

func savePNG(path string, opts Options, render func(draw.Canvas) error) error {
	dpi := opts.DPI
	if dpi == 0 {
		dpi = 300
	}
	img := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(int(dpi)),
	)
	if err := render(draw.New(img)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "render: create png")
	}
	defer f.Close() //nolint:errcheck

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return eris.Wrap(err, "render: write png")
	}
	return nil
}

func savePDF(path string, opts Options, render func(draw.Canvas) error) error {
	pdf := vgpdf.New(opts.Width, opts.Height)
	if err := render(draw.New(pdf)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "render: create pdf")
	}
	defer f.Close() //nolint:errcheck

	if _, err := pdf.WriteTo(f); err != nil {
		return eris.Wrap(err, "render: write pdf")
	}
	return nil
}
