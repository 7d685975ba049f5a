package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
)

const (
	// DefaultScale renders at 108 DPI.
	DefaultScale = 1.5
	// DefaultQuality is the JPEG quality used when none is configured.
	DefaultQuality = 90

	baseDPI = 72.0
)

// Image is an encoded page raster.
type Image struct {
	Data     []byte
	MIMEType string
}

// Pages is an open document whose pages can be rendered one at a time.
// Implementations must be safe for concurrent RenderPage calls.
type Pages interface {
	PageCount() int
	// RenderPage renders the zero-based page index.
	RenderPage(index int) (Image, error)
	Close() error
}

// Renderer rasterizes PDF pages with MuPDF and encodes them as JPEG.
type Renderer struct {
	Scale   float64
	Quality int
}

// NewRenderer creates a Renderer, substituting defaults for non-positive values.
func NewRenderer(scale float64, quality int) *Renderer {
	if scale <= 0 {
		scale = DefaultScale
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Renderer{Scale: scale, Quality: quality}
}

// Open loads a PDF from memory.
func (r *Renderer) Open(data []byte) (Pages, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return &fitzPages{
		doc:     doc,
		dpi:     baseDPI * r.Scale,
		quality: r.Quality,
	}, nil
}

// fitzPages serializes access internally; go-fitz locks the document per call.
type fitzPages struct {
	doc     *fitz.Document
	dpi     float64
	quality int
}

func (p *fitzPages) PageCount() int {
	return p.doc.NumPage()
}

func (p *fitzPages) RenderPage(index int) (Image, error) {
	img, err := p.doc.ImageDPI(index, p.dpi)
	if err != nil {
		return Image{}, fmt.Errorf("failed to render page %d: %w", index+1, err)
	}
	return EncodeJPEG(img, p.quality)
}

func (p *fitzPages) Close() error {
	return p.doc.Close()
}

// EncodeJPEG compresses img at the given quality.
func EncodeJPEG(img image.Image, quality int) (Image, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return Image{}, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return Image{Data: buf.Bytes(), MIMEType: "image/jpeg"}, nil
}
