// Package imaging loads raster images and prepares them for recognition.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	// Registered decoders for the supported raster formats.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/spherical/ocr-extractor/internal/domain"
)

// Open decodes the image at path. Multi-frame GIF and TIFF files yield their
// first frame.
func Open(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", domain.IOError(fmt.Sprintf("cannot open image: %s", path), err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", domain.DecodeError(fmt.Sprintf("cannot decode image: %s", path), err)
	}
	return img, format, nil
}

// EncodePNG serializes img for engines that take encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
