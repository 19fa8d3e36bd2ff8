package rasterizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/scratch"
)

var (
	// ErrUnsupportedFormat marks uploads whose extension is neither a page
	// container nor a known image format. Fatal to the request, no fallback.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrPageRender marks a rasterizer fault. A failure on any page aborts
	// the whole document; partial output from a truncated document must not
	// be labeled as complete.
	ErrPageRender = errors.New("page render failed")
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Rasterizer turns a staged upload into an ordered sequence of page images.
// PDF pages are rendered through pdftoppm at a fixed DPI; single images are
// decoded directly into page zero.
type Rasterizer struct {
	dpi     int
	scratch *scratch.Store
	logger  *slog.Logger
}

func New(dpi int, store *scratch.Store, logger *slog.Logger) *Rasterizer {
	return &Rasterizer{
		dpi:     dpi,
		scratch: store,
		logger:  logger,
	}
}

// EachPage yields the document's pages in order, one at a time, to fn. The
// sequence is single-pass: each PageImage is handed over and then discarded,
// and the page container is closed after the last page on every exit path.
// The first error from rendering or from fn aborts the sequence.
func (rz *Rasterizer) EachPage(ctx context.Context, path string, fn func(pipeline_type.PageImage) error) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return rz.eachPDFPage(ctx, path, fn)
	case imageExts[ext]:
		return rz.singleImage(path, fn)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (rz *Rasterizer) eachPDFPage(ctx context.Context, path string, fn func(pipeline_type.PageImage) error) error {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening page container: %v", ErrPageRender, err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	rz.logger.Debug("Rasterizing page container",
		slog.String("path", path),
		slog.Int("total_pages", totalPages),
		slog.Int("dpi", rz.dpi))

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		img, err := rz.renderPDFPage(ctx, path, pageNum)
		if err != nil {
			return err
		}
		if err := fn(img); err != nil {
			return err
		}
	}
	return nil
}

func (rz *Rasterizer) renderPDFPage(ctx context.Context, path string, pageNum int) (pipeline_type.PageImage, error) {
	h, err := rz.scratch.Allocate(fmt.Sprintf("page_%d.png", pageNum))
	if err != nil {
		return pipeline_type.PageImage{}, fmt.Errorf("%w: page %d: %v", ErrPageRender, pageNum-1, err)
	}
	defer rz.scratch.Release(h)

	args := pdftoppmArgs(path, h.Path(), pageNum, rz.dpi)
	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return pipeline_type.PageImage{}, fmt.Errorf("%w: page %d: pdftoppm: %v: %s",
			ErrPageRender, pageNum-1, err, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(h.Path())
	if err != nil {
		return pipeline_type.PageImage{}, fmt.Errorf("%w: page %d: reading render output: %v", ErrPageRender, pageNum-1, err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return pipeline_type.PageImage{}, fmt.Errorf("%w: page %d: decoding render output: %v", ErrPageRender, pageNum-1, err)
	}

	return pipeline_type.PageImage{
		Index:  pageNum - 1,
		Width:  cfg.Width,
		Height: cfg.Height,
		PNG:    data,
	}, nil
}

// pdftoppmArgs renders exactly one page as PNG. The -singlefile flag makes
// pdftoppm write to "<prefix>.png", so the allocated scratch path doubles as
// the output prefix once its extension is stripped.
func pdftoppmArgs(src, outPath string, pageNum, dpi int) []string {
	prefix := strings.TrimSuffix(outPath, ".png")
	return []string{
		"-f", strconv.Itoa(pageNum),
		"-l", strconv.Itoa(pageNum),
		"-r", strconv.Itoa(dpi),
		"-png",
		"-singlefile",
		src,
		prefix,
	}
}

func (rz *Rasterizer) singleImage(path string, fn func(pipeline_type.PageImage) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening image: %v", ErrPageRender, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: decoding image: %v", ErrPageRender, err)
	}

	// Flatten onto white so downstream sees an alpha-free RGB raster.
	bounds := src.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return fmt.Errorf("%w: encoding image: %v", ErrPageRender, err)
	}

	return fn(pipeline_type.PageImage{
		Index:  0,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		PNG:    buf.Bytes(),
	})
}
