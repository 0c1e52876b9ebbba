package blob

import (
	"fmt"

	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/internal/encoding"
	"github.com/arloliu/lerc/internal/pool"
	"github.com/arloliu/lerc/section"
)

// readTiles decodes the micro block grid: tile rows, then tile columns, then
// depth.
func (d *bandDecoder[T]) readTiles() error {
	h := d.hdr
	mbs := h.MicroBlockSize
	if mbs > section.MaxMicroBlockSize {
		return fmt.Errorf("%w: micro block size %d", errs.ErrInvalidHeader, mbs)
	}
	d.stuffer = encoding.NewBitStuffer(h.Version)

	codes, release := pool.GetUint32Slice(mbs * mbs)
	defer release()
	d.codes = codes[:0]

	for i0 := 0; i0 < h.NumRows; i0 += mbs {
		i1 := min(i0+mbs, h.NumRows)
		for j0 := 0; j0 < h.NumCols; j0 += mbs {
			j1 := min(j0+mbs, h.NumCols)
			for depth := range h.NumDepth {
				if err := d.readTile(i0, i1, j0, j1, depth); err != nil {
					return fmt.Errorf("tile at row %d col %d depth %d: %w", i0, j0, depth, err)
				}
			}
		}
	}

	return nil
}

func (d *bandDecoder[T]) readTile(i0, i1, j0, j1, depthIdx int) error {
	h := d.hdr
	cols, depth := h.NumCols, h.NumDepth

	b, err := d.r.ReadUint8()
	if err != nil {
		return err
	}
	flag := section.TileFlag(b)
	if err := flag.Check(j0, h.Version); err != nil {
		return err
	}
	diff := flag.Diff(h.Version)
	if diff && depthIdx == 0 {
		return fmt.Errorf("%w: depth difference in the first depth slice", errs.ErrCorruptData)
	}

	switch flag.Mode() {
	case section.TileZero:
		for i := i0; i < i1; i++ {
			for k := i*cols + j0; k < i*cols+j1; k++ {
				if !d.valid(k) {
					continue
				}
				m := k*depth + depthIdx
				if diff {
					d.out[m] = d.out[m-1]
				} else {
					d.out[m] = 0
				}
			}
		}

		return nil

	case section.TileRaw:
		if diff {
			return fmt.Errorf("%w: depth difference in a raw tile", errs.ErrCorruptData)
		}
		for i := i0; i < i1; i++ {
			for k := i*cols + j0; k < i*cols+j1; k++ {
				if !d.valid(k) {
					continue
				}
				v, err := readRaw[T](d.r, h.DataType)
				if err != nil {
					return err
				}
				d.out[k*depth+depthIdx] = v
			}
		}

		return nil
	}

	offsetType, err := section.OffsetType(h.DataType, flag.TypeCode(), diff)
	if err != nil {
		return err
	}
	offset, err := readValue(d.r, offsetType)
	if err != nil {
		return err
	}

	zMax := h.ZMax
	if h.Version >= 4 && depth > 1 {
		zMax = d.zMaxVec[depthIdx]
	}

	if flag.Mode() == section.TileConst {
		return d.fillTile(i0, i1, j0, j1, depthIdx, offset, zMax, diff)
	}

	area := (i1 - i0) * (j1 - j0)
	codes, err := d.stuffer.Decode(d.r, area, d.codes)
	if err != nil {
		return err
	}
	d.codes = codes

	// a full-area block also carries codes for invalid pixels
	fullArea := len(codes) == area
	if !fullArea {
		if n := d.validInTile(i0, i1, j0, j1); len(codes) != n {
			return fmt.Errorf("%w: %d codes for %d valid pixels", errs.ErrCorruptData, len(codes), n)
		}
	}

	step := 2 * h.MaxZError
	idx := 0
	for i := i0; i < i1; i++ {
		for k := i*cols + j0; k < i*cols+j1; k++ {
			if !d.valid(k) {
				if fullArea {
					idx++
				}
				continue
			}
			m := k*depth + depthIdx
			z := offset + float64(codes[idx])*step
			idx++
			if diff {
				z += float64(d.out[m-1])
			}
			v, err := d.conv.convert(min(z, zMax))
			if err != nil {
				return err
			}
			d.out[m] = v
		}
	}

	return nil
}

// fillTile writes a constant tile, or a constant difference to the previous
// depth when diff is set.
func (d *bandDecoder[T]) fillTile(i0, i1, j0, j1, depthIdx int, offset, zMax float64, diff bool) error {
	cols, depth := d.hdr.NumCols, d.hdr.NumDepth

	c, err := d.conv.convert(offset)
	if !diff && err != nil {
		return err
	}

	for i := i0; i < i1; i++ {
		for k := i*cols + j0; k < i*cols+j1; k++ {
			if !d.valid(k) {
				continue
			}
			m := k*depth + depthIdx
			if !diff {
				d.out[m] = c
				continue
			}
			v, err := d.conv.convert(min(offset+float64(d.out[m-1]), zMax))
			if err != nil {
				return err
			}
			d.out[m] = v
		}
	}

	return nil
}

func (d *bandDecoder[T]) validInTile(i0, i1, j0, j1 int) int {
	if d.mask == nil {
		return (i1 - i0) * (j1 - j0)
	}
	cols := d.hdr.NumCols
	n := 0
	for i := i0; i < i1; i++ {
		n += d.mask.CountRange(i*cols+j0, i*cols+j1)
	}

	return n
}
