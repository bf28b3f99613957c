package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/hollow/pkg/math3d"
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50

	// DefaultMaxTriangles rejects binary files whose declared triangle count
	// can only be the result of corruption.
	DefaultMaxTriangles = 100_000_000
)

var (
	ErrNoTriangles      = errors.New("stl: no triangles")
	ErrTooManyTriangles = errors.New("stl: triangle count exceeds limit")
	ErrTruncated        = errors.New("stl: unexpected end of data")
)

// ParseError reports a malformed facet in an ASCII STL file.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stl: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// STLLoader decodes STL (stereolithography) files in both ASCII and binary
// formats into unindexed triangles.
type STLLoader struct {
	// MaxTriangles caps the declared count of a binary file.
	MaxTriangles uint32
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{MaxTriangles: DefaultMaxTriangles}
}

// LoadSTL reads an STL file into a new, unindexed mesh.
func LoadSTL(path string) (*Mesh, error) {
	m := NewMesh("")
	if err := m.Read(path); err != nil {
		return nil, err
	}
	return m, nil
}

// Read clears the mesh and parses the STL file at path into its pending
// triangle list. On error the mesh is left empty.
func (m *Mesh) Read(path string) error {
	m.Reset()

	name, tris, err := NewSTLLoader().LoadFile(path)
	if err != nil {
		return err
	}
	m.Name = name
	m.soup = tris
	return nil
}

// LoadFile parses the STL file at path and returns its name and triangles.
func (l *STLLoader) LoadFile(path string) (string, []Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open stl: %w", err)
	}
	defer f.Close()

	name, tris, err := l.Load(f)
	if err != nil {
		return "", nil, fmt.Errorf("load %s: %w", path, err)
	}
	return name, tris, nil
}

// Load parses STL data from r. A stream starting with the "solid" keyword
// is read as ASCII, anything else as binary.
func (l *STLLoader) Load(r io.Reader) (string, []Triangle, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(5)
	if bytes.Equal(head, []byte("solid")) {
		return l.loadASCII(br)
	}
	return l.loadBinary(br)
}

// loadBinary parses binary STL format: an 80-byte header, a little-endian
// uint32 count and one 50-byte record per triangle.
func (l *STLLoader) loadBinary(r io.Reader) (string, []Triangle, error) {
	var header [stlHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return "", nil, fmt.Errorf("read header: %w", ErrTruncated)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return "", nil, fmt.Errorf("read triangle count: %w", ErrTruncated)
	}
	if count > l.MaxTriangles {
		return "", nil, fmt.Errorf("%w: %d > %d", ErrTooManyTriangles, count, l.MaxTriangles)
	}

	// The count is untrusted until the records are actually there.
	tris := make([]Triangle, 0, min(count, 1<<16))
	var rec [stlRecordSize]byte
	for i := range count {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return "", nil, fmt.Errorf("triangle %d of %d: %w", i, count, ErrTruncated)
		}
		tris = append(tris, Triangle{
			Normal: readVec3LE(rec[0:]),
			V: [3]math3d.Vec3{
				readVec3LE(rec[12:]),
				readVec3LE(rec[24:]),
				readVec3LE(rec[36:]),
			},
		})
		// rec[48:50] is the attribute byte count, ignored.
	}

	return TrimHeader(string(header[:])), tris, nil
}

// readVec3LE reads three little-endian float32 values.
func readVec3LE(b []byte) math3d.Vec3 {
	return math3d.V3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	)
}

// TrimHeader turns a raw STL header into a display name: trailing padding
// (NUL, space, CR) is dropped, as is a leading "solid" keyword.
func TrimHeader(h string) string {
	h = strings.TrimRight(h, "\x00 \r")
	if rest, ok := strings.CutPrefix(h, "solid"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		h = strings.TrimSpace(rest)
	}
	return h
}

// loadASCII parses ASCII STL format.
//
// The grammar is line oriented: after the header line, each facet starts at
// a line containing "facet normal", is followed by an "outer loop" line and
// exactly three "vertex" lines, then "endloop" and "endfacet". A facet whose
// normal cannot be parsed is skipped; a missing or malformed vertex line
// fails the whole load.
func (l *STLLoader) loadASCII(r io.Reader) (string, []Triangle, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNum++
		return scanner.Text(), true
	}

	header, ok := next()
	if !ok {
		if err := scanner.Err(); err != nil {
			return "", nil, fmt.Errorf("read ascii stl: %w", err)
		}
		return "", nil, ErrNoTriangles
	}

	var tris []Triangle
	for {
		line, ok := next()
		if !ok {
			break
		}

		idx := strings.Index(line, "facet normal")
		if idx < 0 {
			continue
		}
		normal, err := parseTriple(line[idx+len("facet normal"):])
		if err != nil {
			continue
		}

		next() // outer loop

		t := Triangle{Normal: normal}
		for v := range 3 {
			vline, ok := next()
			if !ok {
				return "", nil, &ParseError{Line: lineNum + 1, Err: fmt.Errorf("missing vertex %d: %w", v, ErrTruncated)}
			}
			vx := strings.Index(vline, "vertex")
			if vx < 0 {
				return "", nil, &ParseError{Line: lineNum, Err: fmt.Errorf("expected vertex, got %q", strings.TrimSpace(vline))}
			}
			t.V[v], err = parseTriple(vline[vx+len("vertex"):])
			if err != nil {
				return "", nil, &ParseError{Line: lineNum, Err: err}
			}
		}

		next() // endloop
		next() // endfacet
		tris = append(tris, t)
	}

	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("read ascii stl: %w", err)
	}
	if len(tris) == 0 {
		return "", nil, ErrNoTriangles
	}

	return TrimHeader(header), tris, nil
}

// parseTriple parses the first three whitespace-separated numbers of s.
func parseTriple(s string) (math3d.Vec3, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("need x y z, got %d values", len(fields))
	}
	var c [3]float64
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("invalid coordinate %q: %w", fields[i], err)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}
