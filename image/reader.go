package image

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/pixelcode/code"
	"github.com/bodgit/pixelcode/palette"
)

var (
	errNoRows    = errors.New("image: missing rows")
	errNoCodes   = errors.New("image: no pixel codes found")
	errBadFirst  = errors.New("image: first pixel code is invalid")
	errBadSize   = errors.New("image: invalid size")
	errTooLarge  = errors.New("image: size exceeds row labels")
	errBadFormat = errors.New("image: not a pixel code document")
)

type decoder struct {
	rows  code.Rows
	size  int
	image *image.NRGBA
}

func (d *decoder) readRows(r io.Reader) error {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return errBadFormat
	}
	if len(f.Rows) == 0 {
		return errNoRows
	}
	d.rows = f.Rows
	return nil
}

func (d *decoder) readSize() error {
	for _, l := range d.rows.Labels() {
		codes := d.rows[l]
		if len(codes) == 0 {
			continue
		}
		c, err := code.Parse(codes[0])
		if err != nil {
			return errBadFirst
		}
		switch {
		case c.Size <= 0:
			return errBadSize
		case c.Size > MaxSize:
			return errTooLarge
		}
		d.size = c.Size
		return nil
	}
	return errNoCodes
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	if err := d.readRows(r); err != nil {
		return err
	}

	if err := d.readSize(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	d.image = image.NewNRGBA(image.Rect(0, 0, d.size, d.size))

	for label, codes := range d.rows {
		runes := []rune(label)
		if len(runes) != 1 {
			continue
		}
		y, ok := code.RowIndex(runes[0])
		if !ok || y >= d.size {
			continue
		}
		for _, s := range codes {
			c, err := code.Parse(s)
			if err != nil {
				continue
			}
			// Inconsistent label for this row
			if c.Row != runes[0] {
				continue
			}
			if c.Column < 0 || c.Column >= d.size {
				continue
			}
			d.image.SetNRGBA(c.Column, y, palette.ResolveRGBA(c.Color))
		}
	}

	return nil
}

// Decode reads a pixel-code document from r and returns it as an
// image.Image. Unparseable codes and codes outside the image are skipped.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a pixel-code
// document without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      d.size,
		Height:     d.size,
	}, nil
}
