package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format names an output image encoding
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "ppm":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("unknown image format %q", name)
}

// FormatFromPath picks a format from the file extension, PPM when the
// extension is missing or unknown
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if format, err := ParseFormat(ext); err == nil {
		return format
	}
	return FormatPPM
}

// maxPPMPixels bounds the buffer ReadPPM allocates from an untrusted header
const maxPPMPixels = 1 << 26

// WritePPM writes a binary P6 pixel map: the ASCII header followed by the
// raw RGB bytes, top row first
func WritePPM(w io.Writer, width, height int, pixels []byte) error {
	if len(pixels) != width*height*3 {
		return fmt.Errorf("pixel buffer has %d bytes, expected %d for %dx%d", len(pixels), width*height*3, width, height)
	}
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(pixels); err != nil {
		return fmt.Errorf("failed to write pixels: %w", err)
	}
	return nil
}

// ReadPPM reads a binary P6 pixel map with a maxval of 255
func ReadPPM(r io.Reader) (width, height int, pixels []byte, err error) {
	br := bufio.NewReader(r)
	var magic string
	var maxVal int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxVal); err != nil {
		return 0, 0, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if magic != "P6" || maxVal != 255 {
		return 0, 0, nil, fmt.Errorf("unsupported pixel map %s with maxval %d", magic, maxVal)
	}
	if width <= 0 || height <= 0 || width > maxPPMPixels/height {
		return 0, 0, nil, fmt.Errorf("invalid pixel map size %dx%d", width, height)
	}
	// A single whitespace byte separates the header from the data
	if _, err := br.ReadByte(); err != nil {
		return 0, 0, nil, fmt.Errorf("failed to read header: %w", err)
	}

	pixels = make([]byte, width*height*3)
	if _, err := io.ReadFull(br, pixels); err != nil {
		return 0, 0, nil, fmt.Errorf("failed to read pixels: %w", err)
	}
	return width, height, pixels, nil
}

// ToImage copies an RGB byte buffer into an opaque RGBA image
func ToImage(width, height int, pixels []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := (y*width + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: pixels[p], G: pixels[p+1], B: pixels[p+2], A: 255})
		}
	}
	return img
}

// FromImage flattens any image into an RGB byte buffer, dropping alpha
func FromImage(img image.Image) (width, height int, pixels []byte) {
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	pixels = make([]byte, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns uint32 in [0, 65535]
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			p := (y*width + x) * 3
			pixels[p] = byte(r >> 8)
			pixels[p+1] = byte(g >> 8)
			pixels[p+2] = byte(b >> 8)
		}
	}
	return width, height, pixels
}

// Encode writes the buffer in the given format
func Encode(w io.Writer, format Format, width, height int, pixels []byte) error {
	if format == FormatPPM {
		return WritePPM(w, width, height, pixels)
	}
	if len(pixels) != width*height*3 {
		return fmt.Errorf("pixel buffer has %d bytes, expected %d for %dx%d", len(pixels), width*height*3, width, height)
	}

	img := ToImage(width, height, pixels)
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unknown image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save encodes the buffer into a new file at path
func Save(path string, format Format, width, height int, pixels []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	w := bufio.NewWriter(file)
	if err := Encode(w, format, width, height, pixels); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}

// Load reads a PPM, PNG, BMP or TIFF file back into an RGB byte buffer
func Load(path string) (width, height int, pixels []byte, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if magic, _ := br.Peek(2); string(magic) == "P6" {
		return ReadPPM(br)
	}

	// Auto-detects PNG, BMP or TIFF from the file header
	img, _, err := image.Decode(br)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("failed to decode image: %w", err)
	}
	width, height, pixels = FromImage(img)
	return width, height, pixels, nil
}
