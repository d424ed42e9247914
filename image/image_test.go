// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/spf13/afero"

	"q3level/filesystem"
)

func tga(t *testing.T, h tgaHeader, pix []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	if err := binary.Write(&b, binary.LittleEndian, h); err != nil {
		t.Fatal(err)
	}
	b.Write(pix)
	return b.Bytes()
}

func TestDecodeTGA(t *testing.T) {
	// 2x2, bottom-left origin: first row in the file is the bottom row
	raw := []byte{
		0, 0, 255, /**/ 0, 255, 0,
		255, 0, 0, /**/ 255, 255, 255,
	}
	img, err := decodeTGA(tga(t, tgaHeader{ImageType: tgaRaw, Width: 2, Height: 2, PixelSize: 24}, raw))
	if err != nil {
		t.Fatalf("decodeTGA: %v", err)
	}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 1, color.NRGBA{255, 0, 0, 255}},
		{1, 1, color.NRGBA{0, 255, 0, 255}},
		{0, 0, color.NRGBA{0, 0, 255, 255}},
		{1, 0, color.NRGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel %d,%d = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodeTGATopLeft(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	img, err := decodeTGA(tga(t, tgaHeader{ImageType: tgaRaw, Width: 1, Height: 2, PixelSize: 32, Attributes: tgaTopLeft}, raw))
	if err != nil {
		t.Fatalf("decodeTGA: %v", err)
	}
	if got, want := img.NRGBAAt(0, 0), (color.NRGBA{3, 2, 1, 4}); got != want {
		t.Errorf("top pixel = %v, want %v", got, want)
	}
	if got, want := img.NRGBAAt(0, 1), (color.NRGBA{7, 6, 5, 8}); got != want {
		t.Errorf("bottom pixel = %v, want %v", got, want)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 4x1: run of three blue pixels, then one raw red pixel
	packed := []byte{
		0x82, 255, 0, 0,
		0x00, 0, 0, 255,
	}
	img, err := decodeTGA(tga(t, tgaHeader{ImageType: tgaRLE, Width: 4, Height: 1, PixelSize: 24}, packed))
	if err != nil {
		t.Fatalf("decodeTGA: %v", err)
	}
	for x := 0; x < 3; x++ {
		if got := img.NRGBAAt(x, 0); got != (color.NRGBA{0, 0, 255, 255}) {
			t.Errorf("pixel %d = %v, want blue", x, got)
		}
	}
	if got := img.NRGBAAt(3, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel 3 = %v, want red", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"colormapped", tga(t, tgaHeader{ImageType: 1, Width: 1, Height: 1, PixelSize: 8}, []byte{0})},
		{"16bit", tga(t, tgaHeader{ImageType: tgaRaw, Width: 1, Height: 1, PixelSize: 16}, []byte{0, 0})},
		{"truncated", tga(t, tgaHeader{ImageType: tgaRaw, Width: 2, Height: 2, PixelSize: 24}, []byte{1, 2, 3})},
		{"truncated rle", tga(t, tgaHeader{ImageType: tgaRLE, Width: 4, Height: 1, PixelSize: 24}, []byte{0x81, 1, 2, 3})},
	}
	for _, tt := range tests {
		if _, err := decodeTGA(tt.data); err == nil {
			t.Errorf("%s: decodeTGA succeeded", tt.name)
		}
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	var jb bytes.Buffer
	if err := jpeg.Encode(&jb, src, nil); err != nil {
		t.Fatal(err)
	}
	afero.WriteFile(fs, "/g/textures/base/a.tga", tga(t, tgaHeader{ImageType: tgaRaw, Width: 1, Height: 1, PixelSize: 24}, []byte{1, 2, 3}), 0644)
	afero.WriteFile(fs, "/g/textures/base/a.jpg", jb.Bytes(), 0644)
	afero.WriteFile(fs, "/g/textures/base/b.jpg", jb.Bytes(), 0644)
	a := filesystem.NewDir(fs, "/g")

	img, fn, err := Load(a, "textures/base/a")
	if err != nil {
		t.Fatalf("Load a: %v", err)
	}
	if fn != "textures/base/a.tga" || img.Bounds().Dx() != 1 {
		t.Errorf("Load a = %v %v, want the tga", fn, img.Bounds())
	}
	img, fn, err = Load(a, "textures/base/b.tga")
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}
	if fn != "textures/base/b.jpg" || img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("Load b = %v %v, want the 8x4 jpg", fn, img.Bounds())
	}
	if _, _, err := Load(a, "textures/base/c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load c: got %v, want ErrNotFound", err)
	}
}

func TestWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 1, color.NRGBA{10, 20, 30, 255})
	if err := Write(fs, "lm_0000.png", img); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := afero.ReadFile(fs, "lm_0000.png")
	if err != nil {
		t.Fatal(err)
	}
	got, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if r, g, b, _ := got.At(2, 1).RGBA(); r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = %d %d %d, want 10 20 30", r>>8, g>>8, b>>8)
	}
}
