package vptree

import (
	"encoding/binary"
	"errors"
	"math"
)

// Record payload layout matches the brute-force index: dim(uint32),
// n(uint32), then textLen(uint32), text bytes, vec(float32[dim]) per item.

func encodeRecords(dim int, texts []string, vecs [][]float32) ([]byte, error) {
	out := make([]byte, 0, 8)
	out = binary.LittleEndian.AppendUint32(out, uint32(dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(texts)))
	for idx, text := range texts {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(text)))
		out = append(out, text...)
		for _, v := range vecs[idx] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out, nil
}

func decodeRecords(data []byte) ([]string, [][]float32, error) {
	if len(data) < 8 {
		return nil, nil, errors.New("vptree: invalid data")
	}
	off := 0
	getU32 := func() uint32 {
		v := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		return v
	}
	dim := int(getU32())
	n := int(getU32())
	texts := make([]string, n)
	vecs := make([][]float32, n)
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return nil, nil, errors.New("vptree: truncated")
		}
		textLen := int(getU32())
		if off+textLen > len(data) {
			return nil, nil, errors.New("vptree: truncated text")
		}
		texts[idx] = string(data[off : off+textLen])
		off += textLen
		if off+4*dim > len(data) {
			return nil, nil, errors.New("vptree: truncated vec")
		}
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(getU32())
		}
		vecs[idx] = vec
	}
	return texts, vecs, nil
}
