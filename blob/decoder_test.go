package blob

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/lerc/compress"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/lerctest"
)

func decodeBlob(t *testing.T, data []byte, opts ...DecoderOption) *Result {
	t.Helper()

	dec, err := NewDecoder(data, opts...)
	require.NoError(t, err)
	res, err := dec.Decode()
	require.NoError(t, err)

	return res
}

func decodeErr(data []byte, opts ...DecoderOption) error {
	dec, err := NewDecoder(data, opts...)
	if err != nil {
		return err
	}
	_, err = dec.Decode()

	return err
}

// requireBand checks band b of res against the values and validity it was
// encoded from. Invalid pixels must decode to zero.
func requireBand(t *testing.T, res *Result, b int, band lerctest.Band) {
	t.Helper()

	depth := max(band.Depth, 1)
	perBand := band.Rows * band.Cols * depth
	for k := range band.Rows * band.Cols {
		valid := band.Valid == nil || band.Valid[k]
		require.Equal(t, valid, res.Valid(b, k), "band %d pixel %d", b, k)
		for d := range depth {
			i := k*depth + d
			want := 0.0
			if valid {
				want = band.Values[i]
			}
			require.Equal(t, want, res.Pixels.Float64(b*perBand+i), "band %d pixel %d depth %d", b, k, d)
		}
	}
}

func ramp(rows, cols int, scale, offset float64) []float64 {
	return lerctest.Grid(rows, cols, 1, func(i, j, _ int) float64 {
		return float64(i*cols+j)*scale + offset
	})
}

func TestDecode_HuffmanScenario(t *testing.T) {
	// three symbols with code lengths 1, 2 and 2
	values := make([]float64, 0, 16)
	for range 4 {
		values = append(values, 0, 1, 0, 2)
	}
	band := lerctest.Band{
		Rows:           4,
		Cols:           4,
		DataType:       format.TypeUint8,
		MaxZError:      0.5,
		Values:         values,
		Mode:           lerctest.Huffman,
		HuffmanLengths: []uint8{1, 2, 2},
	}
	res := decodeBlob(t, lerctest.MustEncode(band))

	px, ok := res.Pixels.(Uint8Pixels)
	require.True(t, ok)
	require.Len(t, px, 16)
	require.Nil(t, res.Mask)
	requireBand(t, res, 0, band)
}

func TestDecode_QuantizedScenario(t *testing.T) {
	tests := []struct {
		name      string
		maxZError float64
	}{
		{name: "codes 0 and 2 at step 0.5", maxZError: 0.25},
		{name: "codes 0 and 1 at step 1", maxZError: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := lerctest.Band{
				Rows:      2,
				Cols:      2,
				DataType:  format.TypeFloat32,
				MaxZError: tt.maxZError,
				Values:    []float64{10, 11, 11, 10},
			}
			res := decodeBlob(t, lerctest.MustEncode(band))

			require.Equal(t, Float32Pixels{10, 11, 11, 10}, res.Pixels)
			require.Nil(t, res.Mask)
		})
	}
}

func TestDecode_DataTypes(t *testing.T) {
	const rows, cols = 5, 7

	tests := []struct {
		dt        format.DataType
		maxZError float64
		scale     float64
		offset    float64
	}{
		{dt: format.TypeInt8, maxZError: 0.5, scale: 3, offset: -60},
		{dt: format.TypeUint8, maxZError: 0.5, scale: 7, offset: 0},
		{dt: format.TypeInt16, maxZError: 0.5, scale: 900, offset: -15000},
		{dt: format.TypeUint16, maxZError: 0.5, scale: 1800, offset: 100},
		{dt: format.TypeInt32, maxZError: 0.5, scale: 1 << 20, offset: -(1 << 24)},
		{dt: format.TypeUint32, maxZError: 0.5, scale: 1 << 22, offset: 1 << 20},
		{dt: format.TypeFloat32, maxZError: 0, scale: 0.25, offset: -3},
		{dt: format.TypeFloat32, maxZError: 0.125, scale: 0.25, offset: 1000},
		{dt: format.TypeFloat64, maxZError: 0, scale: 1.0 / 3, offset: math.Pi},
		{dt: format.TypeFloat64, maxZError: 0.5, scale: 1, offset: -1e9},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s max z error %g", tt.dt, tt.maxZError), func(t *testing.T) {
			band := lerctest.Band{
				Rows:           rows,
				Cols:           cols,
				DataType:       tt.dt,
				MaxZError:      tt.maxZError,
				MicroBlockSize: 4,
				Values:         ramp(rows, cols, tt.scale, tt.offset),
			}
			res := decodeBlob(t, lerctest.MustEncode(band))

			require.Equal(t, tt.dt, res.Pixels.DataType())
			require.Equal(t, rows*cols, res.Pixels.Len())
			requireBand(t, res, 0, band)
		})
	}
}

func TestDecode_LossyWithinMaxZError(t *testing.T) {
	const rows, cols, maxZError = 20, 20, 0.01

	values := lerctest.Grid(rows, cols, 1, func(i, j, _ int) float64 {
		return math.Sin(float64(i)/3) * math.Cos(float64(j)/5) * 100
	})
	data := lerctest.MustEncode(lerctest.Band{
		Rows:      rows,
		Cols:      cols,
		DataType:  format.TypeFloat64,
		MaxZError: maxZError,
		Values:    values,
	})
	res := decodeBlob(t, data)

	px := res.Pixels.(Float64Pixels)
	for k, want := range values {
		require.InDelta(t, want, px[k], maxZError+1e-9, "pixel %d", k)
	}
}

func TestDecode_Versions(t *testing.T) {
	const rows, cols = 9, 10

	for version := 2; version <= 6; version++ {
		t.Run(fmt.Sprintf("v%d", version), func(t *testing.T) {
			band := lerctest.Band{
				Version:        version,
				Rows:           rows,
				Cols:           cols,
				DataType:       format.TypeInt16,
				MaxZError:      0.5,
				MicroBlockSize: 4,
				Valid:          lerctest.Checkerboard(rows, cols),
				Values:         ramp(rows, cols, 3, -50),
			}
			res := decodeBlob(t, lerctest.MustEncode(band))

			require.Equal(t, version, res.Info.Version)
			require.NotNil(t, res.Mask)
			require.Equal(t, rows*cols/2, res.Mask.Count())
			requireBand(t, res, 0, band)
		})
	}
}

func TestDecode_Encodings(t *testing.T) {
	const rows, cols = 12, 12

	checker := lerctest.Checkerboard(rows, cols)
	smooth := ramp(rows, cols, 5, -300)
	lut := lerctest.Grid(rows, cols, 1, func(i, j, _ int) float64 {
		return float64((i+j)%3)*100 + 1000
	})

	tests := []struct {
		name string
		band lerctest.Band
	}{
		{
			name: "stuffed tiles",
			band: lerctest.Band{DataType: format.TypeInt16, MaxZError: 0.5, Values: smooth},
		},
		{
			name: "stuffed tiles with mask",
			band: lerctest.Band{DataType: format.TypeInt16, MaxZError: 0.5, Values: smooth, Valid: checker},
		},
		{
			name: "lookup table tiles",
			band: lerctest.Band{DataType: format.TypeInt16, MaxZError: 0.5, Values: lut, Mode: lerctest.TilesLUT},
		},
		{
			name: "lookup table tiles legacy layout",
			band: lerctest.Band{Version: 2, DataType: format.TypeInt16, MaxZError: 0.5, Values: lut, Mode: lerctest.TilesLUT},
		},
		{
			name: "raw tiles",
			band: lerctest.Band{DataType: format.TypeInt16, MaxZError: 0.5, Values: smooth, Mode: lerctest.TilesRaw, Valid: checker},
		},
		{
			name: "one sweep",
			band: lerctest.Band{DataType: format.TypeInt16, MaxZError: 0.5, Values: smooth, Mode: lerctest.OneSweep},
		},
		{
			name: "one sweep with mask",
			band: lerctest.Band{DataType: format.TypeUint32, MaxZError: 0.5, Values: ramp(rows, cols, 1000, 7), Mode: lerctest.OneSweep, Valid: checker},
		},
		{
			name: "one sweep float64",
			band: lerctest.Band{DataType: format.TypeFloat64, Values: ramp(rows, cols, 0.1, -1), Mode: lerctest.OneSweep},
		},
		{
			name: "reduced int32 offsets",
			band: lerctest.Band{DataType: format.TypeInt32, MaxZError: 0.5, Values: ramp(rows, cols, 1, 100), ReduceOffsets: true},
		},
		{
			name: "reduced uint16 offsets",
			band: lerctest.Band{DataType: format.TypeUint16, MaxZError: 0.5, Values: ramp(rows, cols, 2, 100), ReduceOffsets: true},
		},
		{
			name: "reduced float32 offsets",
			band: lerctest.Band{DataType: format.TypeFloat32, MaxZError: 0.25, Values: ramp(rows, cols, 0.5, 4), ReduceOffsets: true},
		},
		{
			name: "reduced float64 offsets",
			band: lerctest.Band{DataType: format.TypeFloat64, MaxZError: 0.5, Values: ramp(rows, cols, 1, -20), ReduceOffsets: true},
		},
		{
			name: "constant band",
			band: lerctest.Band{DataType: format.TypeInt8, Values: ramp(rows, cols, 0, -7)},
		},
		{
			name: "constant band with mask",
			band: lerctest.Band{DataType: format.TypeFloat32, Values: ramp(rows, cols, 0, 2.5), Valid: checker},
		},
		{
			name: "zero tiles",
			band: lerctest.Band{
				DataType:  format.TypeInt16,
				MaxZError: 0.5,
				Values: lerctest.Grid(rows, cols, 1, func(i, _, _ int) float64 {
					if i < 8 {
						return 0
					}
					return float64(i)
				}),
			},
		},
		{
			name: "huffman int8",
			band: lerctest.Band{DataType: format.TypeInt8, MaxZError: 0.5, Values: ramp(rows, cols, 1, -72), Mode: lerctest.Huffman},
		},
		{
			name: "huffman with mask",
			band: lerctest.Band{DataType: format.TypeUint8, MaxZError: 0.5, Values: ramp(rows, cols, 1, 0), Mode: lerctest.Huffman, Valid: checker},
		},
		{
			name: "delta huffman",
			band: lerctest.Band{DataType: format.TypeUint8, MaxZError: 0.5, Values: ramp(rows, cols, 1, 50), Mode: lerctest.DeltaHuffman},
		},
		{
			name: "delta huffman int8 with mask",
			band: lerctest.Band{
				DataType:  format.TypeInt8,
				MaxZError: 0.5,
				Values: lerctest.Grid(rows, cols, 1, func(i, j, _ int) float64 {
					return float64((i*7+j*3)%50 - 25)
				}),
				Mode:  lerctest.DeltaHuffman,
				Valid: checker,
			},
		},
		{
			name: "delta huffman wrapping",
			band: lerctest.Band{
				DataType:  format.TypeUint8,
				MaxZError: 0.5,
				Values: lerctest.Grid(rows, cols, 1, func(i, j, _ int) float64 {
					return float64((i*cols + j) * 37 % 256)
				}),
				Mode: lerctest.DeltaHuffman,
			},
		},
		{
			name: "huffman version 4",
			band: lerctest.Band{Version: 4, DataType: format.TypeUint8, MaxZError: 0.5, Values: ramp(rows, cols, 1, 3), Mode: lerctest.Huffman},
		},
		{
			name: "uint8 tiles with huffman eligible header",
			band: lerctest.Band{DataType: format.TypeUint8, MaxZError: 0.5, Values: ramp(rows, cols, 1, 3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := tt.band
			band.Rows, band.Cols = rows, cols
			band.MicroBlockSize = 8
			res := decodeBlob(t, lerctest.MustEncode(band))
			requireBand(t, res, 0, band)
		})
	}
}

func TestDecode_LongHuffmanCodes(t *testing.T) {
	// lengths 1..14 plus a second 14-bit code: a complete code whose longest
	// entries do not fit the lookup table
	lengths := make([]uint8, 15)
	for sym := range 14 {
		lengths[sym] = uint8(sym + 1)
	}
	lengths[14] = 14

	band := lerctest.Band{
		Rows:           4,
		Cols:           4,
		DataType:       format.TypeUint8,
		MaxZError:      0.5,
		Values:         lerctest.Grid(4, 4, 1, func(i, j, _ int) float64 { return float64((i*4 + j) % 15) }),
		Mode:           lerctest.Huffman,
		HuffmanLengths: lengths,
	}
	res := decodeBlob(t, lerctest.MustEncode(band))
	requireBand(t, res, 0, band)
}

func TestDecode_Depth(t *testing.T) {
	const rows, cols, depth = 10, 9, 3

	values := lerctest.Grid(rows, cols, depth, func(i, j, d int) float64 {
		return float64(i*100+j*3+d*7) + float64((i*j)%3*d)
	})

	tests := []struct {
		name    string
		version int
		mode    lerctest.Mode
		dt      format.DataType
	}{
		{name: "v4 tiles", version: 4, mode: lerctest.Tiles, dt: format.TypeInt32},
		{name: "v5 depth differences", version: 5, mode: lerctest.TilesDiff, dt: format.TypeInt32},
		{name: "v6 depth differences", version: 6, mode: lerctest.TilesDiff, dt: format.TypeUint16},
		{name: "v6 float depth differences", version: 6, mode: lerctest.TilesDiff, dt: format.TypeFloat32},
		{name: "v6 one sweep", version: 6, mode: lerctest.OneSweep, dt: format.TypeInt16},
		{name: "v6 raw", version: 6, mode: lerctest.TilesRaw, dt: format.TypeFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, valid := range [][]bool{nil, lerctest.Checkerboard(rows, cols)} {
				band := lerctest.Band{
					Version:        tt.version,
					Rows:           rows,
					Cols:           cols,
					Depth:          depth,
					DataType:       tt.dt,
					MaxZError:      0.5,
					MicroBlockSize: 4,
					Valid:          valid,
					Values:         values,
					Mode:           tt.mode,
				}
				res := decodeBlob(t, lerctest.MustEncode(band))
				require.Equal(t, depth, res.Info.NumDepth)
				requireBand(t, res, 0, band)
			}
		})
	}

	t.Run("constant per depth", func(t *testing.T) {
		band := lerctest.Band{
			Rows:     4,
			Cols:     6,
			Depth:    2,
			DataType: format.TypeUint16,
			Values: lerctest.Grid(4, 6, 2, func(_, _, d int) float64 {
				return float64(3 + 5*d)
			}),
		}
		res := decodeBlob(t, lerctest.MustEncode(band))
		requireBand(t, res, 0, band)
	})

	t.Run("huffman", func(t *testing.T) {
		for _, mode := range []lerctest.Mode{lerctest.Huffman, lerctest.DeltaHuffman} {
			band := lerctest.Band{
				Rows:      7,
				Cols:      5,
				Depth:     2,
				DataType:  format.TypeUint8,
				MaxZError: 0.5,
				Valid:     lerctest.Checkerboard(7, 5),
				Values: lerctest.Grid(7, 5, 2, func(i, j, d int) float64 {
					return float64((i*5+j)*(d+1)) + 10
				}),
				Mode: mode,
			}
			res := decodeBlob(t, lerctest.MustEncode(band))
			requireBand(t, res, 0, band)
		}
	})
}

func TestDecode_Masks(t *testing.T) {
	const rows, cols = 20, 20

	halves := make([]bool, rows*cols)
	for k := range rows * cols / 2 {
		halves[k] = true
	}
	sparse := make([]bool, rows*cols)
	sparse[0], sparse[137], sparse[rows*cols-1] = true, true, true

	tests := []struct {
		name    string
		valid   []bool
		literal bool
	}{
		{name: "checkerboard", valid: lerctest.Checkerboard(rows, cols)},
		{name: "checkerboard literal runs", valid: lerctest.Checkerboard(rows, cols), literal: true},
		{name: "repeat runs", valid: halves},
		{name: "sparse", valid: sparse},
		{name: "all invalid", valid: make([]bool, rows*cols)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := lerctest.Band{
				Rows:        rows,
				Cols:        cols,
				DataType:    format.TypeFloat32,
				MaxZError:   0.25,
				Valid:       tt.valid,
				LiteralMask: tt.literal,
				Values:      ramp(rows, cols, 0.5, 0),
			}
			res := decodeBlob(t, lerctest.MustEncode(band))

			require.NotNil(t, res.Mask)
			require.Equal(t, tt.valid, res.Mask.Bools())
			requireBand(t, res, 0, band)
		})
	}
}

func TestDecode_MultiBand(t *testing.T) {
	const rows, cols = 6, 5

	checker := lerctest.Checkerboard(rows, cols)
	bands := []lerctest.Band{
		{Rows: rows, Cols: cols, DataType: format.TypeInt16, MaxZError: 0.5, Valid: checker, Values: ramp(rows, cols, 1, 0)},
		{Rows: rows, Cols: cols, DataType: format.TypeInt16, MaxZError: 0.5, Valid: checker, Values: ramp(rows, cols, -2, 40), InheritMask: true},
		{Rows: rows, Cols: cols, DataType: format.TypeInt16, MaxZError: 0.5, Values: ramp(rows, cols, 0, 9)},
	}

	t.Run("v6", func(t *testing.T) {
		res := decodeBlob(t, lerctest.MustEncode(bands...))

		require.Equal(t, 3, res.Info.NumBands)
		require.Equal(t, 3*rows*cols, res.Pixels.Len())
		for b := range bands {
			requireBand(t, res, b, bands[b])
		}
		require.Same(t, res.BandMasks[0], res.BandMasks[1])
		require.Nil(t, res.BandMasks[2])
		require.True(t, res.Mask.Equal(res.BandMasks[0]))
	})

	t.Run("v3 with trailing bytes", func(t *testing.T) {
		legacy := make([]lerctest.Band, len(bands))
		for i, b := range bands {
			b.Version = 3
			legacy[i] = b
		}
		data := lerctest.MustEncode(legacy...)
		size := len(data)
		data = append(data, []byte("trailing garbage")...)

		res := decodeBlob(t, data)
		require.Equal(t, 3, res.Info.NumBands)
		require.Equal(t, size, res.Info.BlobSize)
		for b := range legacy {
			requireBand(t, res, b, legacy[b])
		}
	})

	t.Run("v6 with trailing bytes", func(t *testing.T) {
		data := lerctest.MustEncode(bands...)
		size := len(data)
		data = append(data, "Lerc2 "...)

		res := decodeBlob(t, data)
		require.Equal(t, 3, res.Info.NumBands)
		require.Equal(t, size, res.Info.BlobSize)
	})

	t.Run("mask intersection", func(t *testing.T) {
		other := make([]bool, rows*cols)
		for k := range other {
			other[k] = k < 20
		}
		data := lerctest.MustEncode(
			lerctest.Band{Rows: rows, Cols: cols, DataType: format.TypeUint8, Valid: checker, Values: ramp(rows, cols, 1, 0)},
			lerctest.Band{Rows: rows, Cols: cols, DataType: format.TypeUint8, Valid: other, Values: ramp(rows, cols, 1, 100)},
		)
		res := decodeBlob(t, data)

		for k := range rows * cols {
			require.Equal(t, checker[k] && other[k], res.Mask.Valid(k), "pixel %d", k)
		}
	})
}

func TestDecode_NoDataRemap(t *testing.T) {
	const rows, cols = 4, 4

	values := lerctest.Grid(rows, cols, 2, func(i, j, d int) float64 {
		if (i+j)%3 == 0 && d == 1 {
			return -1
		}
		return float64(i*cols + j + d*20)
	})

	t.Run("remaps no data in mixed pixels", func(t *testing.T) {
		band := lerctest.Band{
			Rows:       rows,
			Cols:       cols,
			Depth:      2,
			DataType:   format.TypeInt16,
			MaxZError:  0.5,
			Values:     values,
			PassNoData: true,
			NoData:     -1,
			NoDataOrig: -9999,
		}
		res := decodeBlob(t, lerctest.MustEncode(band))

		px := res.Pixels.(Int16Pixels)
		for i, v := range values {
			want := int16(v)
			if v == -1 {
				want = -9999
			}
			require.Equal(t, want, px[i], "value %d", i)
		}
	})

	t.Run("no remap without pass flag", func(t *testing.T) {
		band := lerctest.Band{
			Rows:       rows,
			Cols:       cols,
			Depth:      2,
			DataType:   format.TypeInt16,
			MaxZError:  0.5,
			Values:     values,
			NoData:     -1,
			NoDataOrig: -9999,
		}
		res := decodeBlob(t, lerctest.MustEncode(band))
		requireBand(t, res, 0, band)
	})

	t.Run("unrepresentable no data value is ignored", func(t *testing.T) {
		band := lerctest.Band{
			Rows:       rows,
			Cols:       cols,
			Depth:      2,
			DataType:   format.TypeUint8,
			MaxZError:  0.5,
			Values:     ramp(rows, cols*2, 1, 0),
			PassNoData: true,
			NoData:     300,
			NoDataOrig: 0,
		}
		res := decodeBlob(t, lerctest.MustEncode(band))
		requireBand(t, res, 0, band)
	})
}

func TestDecode_Compressed(t *testing.T) {
	band := lerctest.Band{
		Rows:      16,
		Cols:      16,
		DataType:  format.TypeFloat32,
		MaxZError: 0.25,
		Valid:     lerctest.Checkerboard(16, 16),
		Values:    ramp(16, 16, 0.5, -10),
	}
	raw := lerctest.MustEncode(band)

	for _, ct := range []format.CompressionType{
		format.CompressionDeflate,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := compress.GetCodec(ct)
			require.NoError(t, err)
			packed, err := codec.Compress(raw)
			require.NoError(t, err)

			res := decodeBlob(t, packed, WithCompression(ct))
			requireBand(t, res, 0, band)

			size, err := GetDecodedSize(packed, WithCompression(ct))
			require.NoError(t, err)
			require.Equal(t, 256, size)

		})
	}

	t.Run("uncompressed input", func(t *testing.T) {
		for _, ct := range []format.CompressionType{format.CompressionDeflate, format.CompressionZstd} {
			_, err := NewDecoder(raw, WithCompression(ct))
			require.Error(t, err, ct.String())
		}
	})
}

func TestDecode_Idempotent(t *testing.T) {
	data := lerctest.MustEncode(
		lerctest.Band{Rows: 8, Cols: 8, DataType: format.TypeInt32, MaxZError: 0.5, Valid: lerctest.Checkerboard(8, 8), Values: ramp(8, 8, 11, -5)},
		lerctest.Band{Rows: 8, Cols: 8, DataType: format.TypeInt32, MaxZError: 0.5, Values: ramp(8, 8, 3, 1)},
	)
	dec, err := NewDecoder(data)
	require.NoError(t, err)

	first, err := dec.Decode()
	require.NoError(t, err)
	second, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, first.Pixels, second.Pixels)
	require.Equal(t, first.Digest(), second.Digest())

	again := decodeBlob(t, data)
	require.Equal(t, first.Digest(), again.Digest())
}

func TestDecode_Concurrent(t *testing.T) {
	data := lerctest.MustEncode(lerctest.Band{
		Rows:      32,
		Cols:      32,
		DataType:  format.TypeUint16,
		MaxZError: 0.5,
		Valid:     lerctest.Checkerboard(32, 32),
		Values:    ramp(32, 32, 13, 0),
	})
	dec, err := NewDecoder(data)
	require.NoError(t, err)
	want, err := dec.Decode()
	require.NoError(t, err)

	const workers = 8
	digests := make([]uint64, workers)
	failures := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := dec.Decode()
			if err != nil {
				failures[i] = err
				return
			}
			digests[i] = res.Digest()
		}()
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, failures[i])
		require.Equal(t, want.Digest(), digests[i])
	}
}

func TestResult_Digest(t *testing.T) {
	values := ramp(4, 4, 1, 0)
	checker := lerctest.Checkerboard(4, 4)

	masked := decodeBlob(t, lerctest.MustEncode(lerctest.Band{Rows: 4, Cols: 4, DataType: format.TypeUint8, Values: values, Valid: checker}))
	full := decodeBlob(t, lerctest.MustEncode(lerctest.Band{Rows: 4, Cols: 4, DataType: format.TypeUint8, Values: values}))
	require.NotEqual(t, masked.Digest(), full.Digest())

	// the digest depends on the pixels, not on how they were coded
	full16 := decodeBlob(t, lerctest.MustEncode(lerctest.Band{Rows: 4, Cols: 4, DataType: format.TypeUint16, Values: values}))
	other16 := decodeBlob(t, lerctest.MustEncode(lerctest.Band{Rows: 4, Cols: 4, DataType: format.TypeUint16, Values: values, Mode: lerctest.OneSweep}))
	require.Equal(t, full16.Digest(), other16.Digest())
}

func TestDecoder_Info(t *testing.T) {
	data := lerctest.MustEncode(
		lerctest.Band{Rows: 3, Cols: 4, DataType: format.TypeFloat64, Values: ramp(3, 4, 1, 0)},
		lerctest.Band{Rows: 3, Cols: 4, DataType: format.TypeFloat64, Values: ramp(3, 4, 2, 0)},
	)
	dec, err := NewDecoder(data)
	require.NoError(t, err)

	info := dec.Info()
	require.Len(t, info.Bands, 2)
	info.Bands[0].NumRows = 99

	require.Equal(t, 3, dec.Info().Bands[0].NumRows)
}
