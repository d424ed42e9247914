// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/spf13/afero"

	"q3level/filesystem"
)

// ErrNotFound is returned by Load if no image exists under any of the
// supported extensions.
var ErrNotFound = errors.New("image not found")

// Write stores img as png file name on fs.
func Write(fs afero.Fs, name string, img image.Image) error {
	f, err := fs.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %v: %w", name, err)
	}
	return f.Close()
}

// Load finds the texture name in a. Like the game it tries name.tga first and
// name.jpg second. It returns the image and the file that was used.
func Load(a filesystem.Archive, name string) (*image.NRGBA, string, error) {
	name = filesystem.StripExt(name)
	for _, ext := range []string{".tga", ".jpg"} {
		fn := name + ext
		if !a.Exists(fn) {
			continue
		}
		data, err := filesystem.ReadFile(a, fn)
		if err != nil {
			return nil, fn, err
		}
		var img *image.NRGBA
		if ext == ".tga" {
			img, err = decodeTGA(data)
		} else {
			img, err = decodeJPEG(data)
		}
		if err != nil {
			return nil, fn, fmt.Errorf("%v: %w", fn, err)
		}
		return img, fn, nil
	}
	return nil, "", fmt.Errorf("%v: %w", name, ErrNotFound)
}

func decodeJPEG(data []byte) (*image.NRGBA, error) {
	src, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img, nil
}

type tgaHeader struct {
	IDLength       uint8
	ColormapType   uint8
	ImageType      uint8
	ColormapIndex  uint16
	ColormapLength uint16
	ColormapSize   uint8
	XOrigin        uint16
	YOrigin        uint16
	Width          uint16
	Height         uint16
	PixelSize      uint8
	Attributes     uint8
}

const (
	tgaRaw = 2
	tgaRLE = 10

	// pixel rows are stored top to bottom instead of bottom to top
	tgaTopLeft = 0x20
)

func decodeTGA(data []byte) (*image.NRGBA, error) {
	r := bytes.NewReader(data)
	var h tgaHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("invalid tga header: %w", err)
	}
	if h.ImageType != tgaRaw && h.ImageType != tgaRLE {
		return nil, fmt.Errorf("tga type %d is not a type 2 or type 10", h.ImageType)
	}
	if h.ColormapType != 0 || (h.PixelSize != 32 && h.PixelSize != 24) {
		return nil, fmt.Errorf("tga is not 24bit or 32bit")
	}
	pix := data[len(data)-r.Len():]
	if len(pix) < int(h.IDLength) {
		return nil, fmt.Errorf("tga image id exceeds file")
	}
	pix = pix[h.IDLength:]

	width, height := int(h.Width), int(h.Height)
	bpp := int(h.PixelSize) / 8
	n := width * height
	// pixels in file order, BGR(A)
	var raw []byte
	if h.ImageType == tgaRaw {
		if len(pix) < n*bpp {
			return nil, fmt.Errorf("not enough pixels")
		}
		raw = pix[:n*bpp]
	} else {
		var err error
		if raw, err = unpackRLE(pix, n, bpp); err != nil {
			return nil, err
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for p := 0; p < n; p++ {
		x, y := p%width, p/width
		if h.Attributes&tgaTopLeft == 0 {
			y = height - 1 - y
		}
		o := img.PixOffset(x, y)
		s := raw[p*bpp:]
		img.Pix[o+0] = s[2]
		img.Pix[o+1] = s[1]
		img.Pix[o+2] = s[0]
		img.Pix[o+3] = 255
		if bpp == 4 {
			img.Pix[o+3] = s[3]
		}
	}
	return img, nil
}

// unpackRLE expands n run length encoded pixels of bpp bytes. A packet header
// with the high bit set repeats the following pixel, otherwise raw pixels follow.
func unpackRLE(pix []byte, n, bpp int) ([]byte, error) {
	out := make([]byte, 0, n*bpp)
	for len(out) < n*bpp {
		if len(pix) == 0 {
			return nil, fmt.Errorf("rle data ends after %d pixels", len(out)/bpp)
		}
		c := int(pix[0]&0x7f) + 1
		if pix[0]&0x80 != 0 {
			if len(pix) < 1+bpp {
				return nil, fmt.Errorf("truncated rle packet")
			}
			for i := 0; i < c; i++ {
				out = append(out, pix[1:1+bpp]...)
			}
			pix = pix[1+bpp:]
		} else {
			if len(pix) < 1+c*bpp {
				return nil, fmt.Errorf("truncated raw packet")
			}
			out = append(out, pix[1:1+c*bpp]...)
			pix = pix[1+c*bpp:]
		}
	}
	// a packet may cross the end of the image
	return out[:n*bpp], nil
}
