package imageio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// testPixels is a 3x2 buffer of distinct colors
func testPixels() []byte {
	return []byte{
		255, 0, 0, 0, 255, 0, 0, 0, 255,
		10, 20, 30, 128, 128, 128, 255, 255, 255,
	}
}

func TestWritePPM_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, 3, 2, testPixels()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := append([]byte("P6\n3 2\n255\n"), testPixels()...)
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("Expected %q, got %q", expected, buf.Bytes())
	}
}

func TestWritePPM_WrongBufferSize(t *testing.T) {
	var buf bytes.Buffer
	err := WritePPM(&buf, 3, 3, testPixels())
	if err == nil {
		t.Fatal("Expected an error for a short buffer")
	}
	if buf.Len() != 0 {
		t.Errorf("Expected nothing written, got %d bytes", buf.Len())
	}
}

func TestReadPPM_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, 3, 2, testPixels()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	width, height, pixels, err := ReadPPM(&buf)
	if err != nil {
		t.Fatalf("ReadPPM failed: %v", err)
	}
	if width != 3 || height != 2 {
		t.Errorf("Expected 3x2, got %dx%d", width, height)
	}
	if !bytes.Equal(pixels, testPixels()) {
		t.Errorf("Pixels differ after round trip: %v", pixels)
	}
}

func TestReadPPM_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ascii pixel map", "P3\n1 1\n255\n0 0 0\n"},
		{"16-bit maxval", "P6\n1 1\n65535\n\x00\x00\x00\x00\x00\x00"},
		{"truncated data", "P6\n2 2\n255\n\x00\x00\x00"},
		{"empty", ""},
		{"zero width", "P6\n0 2\n255\n"},
		{"negative height", "P6\n2 -1\n255\n\x00\x00\x00"},
		{"oversized header", "P6\n100000 100000\n255\n\x00\x00\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := ReadPPM(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"trace.ppm", FormatPPM},
		{"out/render.PNG", FormatPNG},
		{"render.bmp", FormatBMP},
		{"render.tif", FormatTIFF},
		{"render.tiff", FormatTIFF},
		{"render", FormatPPM},
		{"render.jpg", FormatPPM},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.expected {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestParseFormat_Unknown(t *testing.T) {
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

func TestToImage(t *testing.T) {
	img := ToImage(3, 2, testPixels())
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("Expected 3x2 image, got %v", img.Bounds())
	}

	c := img.RGBAAt(0, 1)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 255 {
		t.Errorf("Expected (10,20,30,255) at (0,1), got %v", c)
	}
}

func TestSaveAndLoad_EveryFormat(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []Format{FormatPPM, FormatPNG, FormatBMP, FormatTIFF} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(dir, "render."+string(format))
			if err := Save(path, format, 3, 2, testPixels()); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			width, height, pixels, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if width != 3 || height != 2 {
				t.Errorf("Expected 3x2, got %dx%d", width, height)
			}
			if !bytes.Equal(pixels, testPixels()) {
				t.Errorf("Pixels differ after %s round trip: %v", format, pixels)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, _, _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
