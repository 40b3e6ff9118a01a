package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/golang/glog"
)

// plyHeader represents the parsed header information from a PLY file
type plyHeader struct {
	format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	vertexCount int
	faceCount   int
	vertexProps []plyProperty
	faceProps   []plyProperty
	hasNormals  bool
	hasColors   bool
}

// plyProperty represents a property definition in the PLY header
type plyProperty struct {
	name     string
	typ      string // Scalar type, or element type for lists
	isList   bool
	listType string // For list properties, the type of the count
}

// plyValueReader yields successive scalar values from the PLY body
type plyValueReader interface {
	next(typ string) (float64, error)
}

// LoadPLY loads a triangle mesh from a PLY file
func LoadPLY(filename string) (*MeshData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY file %s: %w", filename, err)
	}

	glog.V(1).Infof("Loaded PLY %s: %d vertices, %d triangles in %v",
		filename, len(mesh.Vertices), mesh.TriangleCount(), time.Since(startTime))

	return mesh, nil
}

// ReadPLY parses PLY data in ascii or binary form. Polygons with more than
// three vertices are split into a triangle fan.
func ReadPLY(r io.Reader) (*MeshData, error) {
	br := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.format {
	case "binary_little_endian":
		values = &plyBinaryReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{r: br, order: binary.BigEndian}
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		values = &plyASCIIReader{scanner: scanner}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.format)
	}

	mesh := &MeshData{
		Vertices: make([]core.Vec3, 0, header.vertexCount),
		Indices:  make([]uint32, 0, header.faceCount*3),
	}
	if header.hasNormals {
		mesh.Normals = make([]core.Vec3, 0, header.vertexCount)
	}
	if header.hasColors {
		mesh.Colors = make([]core.Vec3, 0, header.vertexCount)
	}

	if err := readPLYVertices(values, header, mesh); err != nil {
		return nil, err
	}
	if err := readPLYFaces(values, header, mesh); err != nil {
		return nil, err
	}
	return mesh, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(r *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{}
	var currentElement string

	for lineNo := 0; ; lineNo++ {
		raw, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unexpected end of header: %w", err)
		}
		line := strings.TrimSpace(raw)

		if lineNo == 0 {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic, got %q", line)
			}
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.format = parts[1]
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.vertexCount = count
			case "face":
				header.faceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			switch currentElement {
			case "vertex":
				header.vertexProps = append(header.vertexProps, prop)
				switch prop.name {
				case "nx", "ny", "nz":
					header.hasNormals = true
				case "red", "green", "blue", "r", "g", "b":
					header.hasColors = true
				}
			case "face":
				header.faceProps = append(header.faceProps, prop)
			}
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) >= 1 && parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("invalid list property definition: %v", parts)
		}
		return plyProperty{isList: true, listType: parts[1], typ: parts[2], name: parts[3]}, nil
	}
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("invalid property definition: %v", parts)
	}
	return plyProperty{typ: parts[0], name: parts[1]}, nil
}

func readPLYVertices(values plyValueReader, header *plyHeader, mesh *MeshData) error {
	for i := 0; i < header.vertexCount; i++ {
		var pos, normal, color core.Vec3
		for _, prop := range header.vertexProps {
			if prop.isList {
				if err := skipPLYList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := values.next(prop.typ)
			if err != nil {
				return fmt.Errorf("vertex %d property %s: %w", i, prop.name, err)
			}
			switch prop.name {
			case "x":
				pos.X = v
			case "y":
				pos.Y = v
			case "z":
				pos.Z = v
			case "nx":
				normal.X = v
			case "ny":
				normal.Y = v
			case "nz":
				normal.Z = v
			case "red", "r":
				color.X = plyColorChannel(v, prop.typ)
			case "green", "g":
				color.Y = plyColorChannel(v, prop.typ)
			case "blue", "b":
				color.Z = plyColorChannel(v, prop.typ)
			}
		}
		mesh.Vertices = append(mesh.Vertices, pos)
		if header.hasNormals {
			mesh.Normals = append(mesh.Normals, normal)
		}
		if header.hasColors {
			mesh.Colors = append(mesh.Colors, color)
		}
	}
	return nil
}

func readPLYFaces(values plyValueReader, header *plyHeader, mesh *MeshData) error {
	polygon := make([]uint32, 0, 4)
	for i := 0; i < header.faceCount; i++ {
		for _, prop := range header.faceProps {
			if !prop.isList || (prop.name != "vertex_indices" && prop.name != "vertex_index") {
				if err := skipPLYProperty(values, prop); err != nil {
					return fmt.Errorf("face %d property %s: %w", i, prop.name, err)
				}
				continue
			}

			n, err := values.next(prop.listType)
			if err != nil {
				return fmt.Errorf("face %d vertex count: %w", i, err)
			}
			if n < 3 {
				return fmt.Errorf("face %d has %d vertices", i, int(n))
			}

			polygon = polygon[:0]
			for j := 0; j < int(n); j++ {
				idx, err := values.next(prop.typ)
				if err != nil {
					return fmt.Errorf("face %d index %d: %w", i, j, err)
				}
				if idx < 0 || int(idx) >= header.vertexCount {
					return fmt.Errorf("face %d references vertex %d of %d", i, int(idx), header.vertexCount)
				}
				polygon = append(polygon, uint32(idx))
			}

			for j := 1; j+1 < len(polygon); j++ {
				mesh.Indices = append(mesh.Indices, polygon[0], polygon[j], polygon[j+1])
			}
		}
	}
	return nil
}

// plyColorChannel maps integer color channels to [0,1]; float channels pass through
func plyColorChannel(v float64, typ string) float64 {
	switch typ {
	case "uchar", "uint8":
		return v / 255.0
	case "ushort", "uint16":
		return v / 65535.0
	}
	return v
}

func skipPLYProperty(values plyValueReader, prop plyProperty) error {
	if prop.isList {
		return skipPLYList(values, prop)
	}
	_, err := values.next(prop.typ)
	return err
}

func skipPLYList(values plyValueReader, prop plyProperty) error {
	n, err := values.next(prop.listType)
	if err != nil {
		return err
	}
	for j := 0; j < int(n); j++ {
		if _, err := values.next(prop.typ); err != nil {
			return err
		}
	}
	return nil
}

// plyBinaryReader decodes fixed-size scalars in the file's byte order
type plyBinaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (p *plyBinaryReader) next(typ string) (float64, error) {
	size := plyTypeSize(typ)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", typ)
	}
	b := p.buf[:size]
	if _, err := io.ReadFull(p.r, b); err != nil {
		return 0, err
	}
	switch typ {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(p.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(p.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(p.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(p.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(p.order.Uint32(b))), nil
	default: // double
		return math.Float64frombits(p.order.Uint64(b)), nil
	}
}

// plyASCIIReader reads whitespace-separated values
type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (p *plyASCIIReader) next(typ string) (float64, error) {
	if plyTypeSize(typ) == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", typ)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(p.scanner.Text(), 64)
}

// plyTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func plyTypeSize(typ string) int {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}
