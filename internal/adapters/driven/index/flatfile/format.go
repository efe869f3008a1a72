package flatfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// Index file layout, little-endian:
//
//	[0:4]   magic "SCIX"
//	[4:8]   uint32 format version
//	[8:12]  uint32 dimension
//	[12:20] uint64 vector count
//	[20:]   count*dimension float32 values, row-major
const (
	indexMagic   = "SCIX"
	indexVersion = 1
	headerSize   = 20
)

// scopeIndex is the in-memory form of a scope's file pair.
type scopeIndex struct {
	dim     int
	vectors []float32
	ids     []int64
}

func (x *scopeIndex) count() int {
	if x.dim == 0 {
		return 0
	}
	return len(x.vectors) / x.dim
}

func (x *scopeIndex) vector(i int) []float32 {
	return x.vectors[i*x.dim : (i+1)*x.dim]
}

func encodeIndex(dim int, vectors []float32) []byte {
	count := 0
	if dim > 0 {
		count = len(vectors) / dim
	}
	buf := make([]byte, headerSize+4*len(vectors))
	copy(buf[0:4], indexMagic)
	binary.LittleEndian.PutUint32(buf[4:8], indexVersion)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(dim))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(count))
	for i, v := range vectors {
		binary.LittleEndian.PutUint32(buf[headerSize+4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeHeader returns the dimension and count recorded in an index file.
func decodeHeader(data []byte) (dim, count int, err error) {
	if len(data) < headerSize {
		return 0, 0, fmt.Errorf("%w: index file truncated (%d bytes)", domain.ErrIndexCorrupt, len(data))
	}
	if string(data[0:4]) != indexMagic {
		return 0, 0, fmt.Errorf("%w: bad index magic %q", domain.ErrIndexCorrupt, data[0:4])
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != indexVersion {
		return 0, 0, fmt.Errorf("%w: unsupported index version %d", domain.ErrIndexCorrupt, v)
	}
	rawDim := binary.LittleEndian.Uint32(data[8:12])
	rawCount := binary.LittleEndian.Uint64(data[12:20])
	if rawDim == 0 {
		return 0, 0, fmt.Errorf("%w: index dimension 0", domain.ErrIndexCorrupt)
	}
	// The count must be checked against the payload before any int
	// arithmetic so a forged header cannot overflow the size computation.
	if maxCount := uint64(len(data)-headerSize) / (4 * uint64(rawDim)); rawCount > maxCount {
		return 0, 0, fmt.Errorf("%w: header says %d vectors of %d but payload holds at most %d",
			domain.ErrIndexCorrupt, rawCount, rawDim, maxCount)
	}
	return int(rawDim), int(rawCount), nil
}

func decodeIndex(data []byte) (int, []float32, error) {
	dim, count, err := decodeHeader(data)
	if err != nil {
		return 0, nil, err
	}
	want := headerSize + 4*dim*count
	if len(data) != want {
		return 0, nil, fmt.Errorf("%w: index holds %d bytes, header says %d vectors of %d (%d bytes)",
			domain.ErrIndexCorrupt, len(data), count, dim, want)
	}
	vectors := make([]float32, dim*count)
	for i := range vectors {
		vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[headerSize+4*i:]))
	}
	return dim, vectors, nil
}

func encodeMapping(ids []int64) []byte {
	var buf bytes.Buffer
	for _, id := range ids {
		buf.WriteString(strconv.FormatInt(id, 10))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func decodeMapping(data []byte) ([]int64, error) {
	var ids []int64
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: mapping line %d: %q is not a chunk id", domain.ErrIndexCorrupt, line, text)
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return ids, nil
}
