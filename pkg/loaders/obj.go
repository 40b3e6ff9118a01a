package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/golang/glog"
)

// objCorner identifies a face corner by its 0-based position, uv and normal
// indices, with -1 for an absent uv or normal.
type objCorner struct {
	v, vt, vn int
}

// LoadOBJ loads a Wavefront OBJ file. All objects and groups are merged into
// a single mesh.
func LoadOBJ(filename string) (*MeshData, error) {
	start := time.Now()
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("while opening OBJ file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("while reading OBJ %s: %w", filename, err)
	}
	glog.V(1).Infof("Loaded OBJ %s: %d vertices, %d triangles in %v",
		filename, len(mesh.Vertices), mesh.TriangleCount(), time.Since(start))
	return mesh, nil
}

// ReadOBJ parses OBJ data. Only triangular faces are kept; other polygons are
// skipped. Corners that share position, uv and normal indices become one
// vertex. Normals are nil unless the faces reference them, and colors are
// always nil.
func ReadOBJ(r io.Reader) (*MeshData, error) {
	var (
		positions []core.Vec3
		normals   []core.Vec3
		uvCount   int
		corners   = make(map[objCorner]uint32)
		order     []objCorner
		indices   []uint32
		skipped   int
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseOBJVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			positions = append(positions, v)
		case "vn":
			n, err := parseOBJVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			normals = append(normals, n)
		case "vt":
			uvCount++
		case "f":
			if len(fields) != 4 {
				skipped++
				continue
			}
			for _, tok := range fields[1:] {
				c, err := parseOBJCorner(tok, len(positions), uvCount, len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx, ok := corners[c]
				if !ok {
					idx = uint32(len(order))
					corners[c] = idx
					order = append(order, c)
				}
				indices = append(indices, idx)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("while scanning OBJ: %w", err)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no triangles found")
	}
	if skipped > 0 {
		glog.Warningf("Skipped %d non-triangle OBJ faces", skipped)
	}

	withNormals := 0
	for _, c := range order {
		if c.vn >= 0 {
			withNormals++
		}
	}
	if withNormals != 0 && withNormals != len(order) {
		return nil, fmt.Errorf("%d of %d face corners have no normal", len(order)-withNormals, len(order))
	}

	mesh := &MeshData{
		Vertices: make([]core.Vec3, len(order)),
		Indices:  indices,
	}
	if withNormals > 0 {
		mesh.Normals = make([]core.Vec3, len(order))
	}
	for i, c := range order {
		mesh.Vertices[i] = positions[c.v]
		if mesh.Normals != nil {
			mesh.Normals[i] = normals[c.vn]
		}
	}
	return mesh, nil
}

func parseOBJVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("while parsing component %q: %w", fields[i], err)
		}
		xyz[i] = f
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

// parseOBJCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into 0-based
// indices. Negative indices count back from the latest element.
func parseOBJCorner(tok string, nv, nvt, nvn int) (objCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("malformed face corner %q", tok)
	}
	c := objCorner{v: -1, vt: -1, vn: -1}
	targets := []*int{&c.v, &c.vt, &c.vn}
	counts := []int{nv, nvt, nvn}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return objCorner{}, fmt.Errorf("face corner %q has no position", tok)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return objCorner{}, fmt.Errorf("while parsing face corner %q: %w", tok, err)
		}
		idx := n - 1
		if n < 0 {
			idx = counts[i] + n
		}
		if n == 0 || idx < 0 || idx >= counts[i] {
			return objCorner{}, fmt.Errorf("face corner %q index %d out of range for %d elements", tok, n, counts[i])
		}
		*targets[i] = idx
	}
	return c, nil
}
