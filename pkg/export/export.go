// Package export serializes evaluated solids to mesh files. Output is a
// pure function of the tree and the resolution: vertices are numbered in
// first-use order and numbers are printed at fixed precision, so exporting
// the same tree twice yields identical bytes.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/mesh"
	"github.com/chazu/kerf/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Format names an output file format.
type Format string

const (
	// OFF writes polygon faces in Object File Format.
	OFF Format = "off"
	// STL writes triangles in ASCII STL.
	STL Format = "stl"
)

// Formats lists the supported formats.
var Formats = []Format{OFF, STL}

// ParseFormat accepts a format name, case-insensitively, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	switch f {
	case OFF, STL:
		return f, nil
	case "":
		return OFF, nil
	}
	return "", fmt.Errorf("export: unknown format %q (want off or stl)", s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// FormatFor picks the format from a file name's extension, falling back to
// def when the extension is not a known format.
func FormatFor(path string, def Format) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil && filepath.Ext(path) != "" {
		return f
	}
	return def
}

// Metadata is the only non-geometric content of an artifact.
type Metadata struct {
	Format Format
	// PartName names the solid in the STL header and as an OFF comment.
	PartName string
}

// precision is the number of decimals written for coordinates.
const precision = 6

// Export evaluates root at resolution res and returns the serialized mesh.
func Export(ctx context.Context, ev *tessellate.Evaluator, root *csg.Node, res int, meta Metadata) ([]byte, error) {
	if res == 0 {
		res = tessellate.DefaultResolution
	}
	m, err := ev.Evaluate(ctx, root, res)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, m, res, meta); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes m to w in the format named by meta.
func Encode(w io.Writer, m *mesh.Mesh, res int, meta Metadata) error {
	f := meta.Format
	if f == "" {
		f = OFF
	}
	switch f {
	case OFF:
		return writeOFF(w, m, res, meta)
	case STL:
		return writeSTL(w, m, res, meta)
	}
	return fmt.Errorf("export: unknown format %q", f)
}

// Option configures WriteFile.
type Option func(*writeOptions)

type writeOptions struct {
	logger *slog.Logger
	perm   os.FileMode
}

// WithLogger logs the written artifact at info level.
func WithLogger(l *slog.Logger) Option {
	return func(o *writeOptions) { o.logger = l }
}

// WithPerm sets the file mode of the artifact. The default is 0644.
func WithPerm(p os.FileMode) Option {
	return func(o *writeOptions) { o.perm = p }
}

// WriteFile exports root to path. The file either appears complete or not
// at all: data goes to a temporary file in the same directory that is
// renamed into place only after a successful write, and a cancelled ctx
// before the rename leaves no file behind.
func WriteFile(ctx context.Context, ev *tessellate.Evaluator, root *csg.Node, path string, res int, meta Metadata, opts ...Option) error {
	o := writeOptions{perm: 0o644}
	for _, fn := range opts {
		fn(&o)
	}
	if meta.Format == "" {
		meta.Format = FormatFor(path, OFF)
	}
	data, err := Export(ctx, ev, root, res, meta)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(ctx, path, data, o.perm); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	if o.logger != nil {
		o.logger.Info("wrote artifact", "path", path, "format", meta.Format, "bytes", len(data), "root", root.ID().Short())
	}
	return nil
}

func atomicWriteFile(ctx context.Context, path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ---------------------------------------------------------------------------
// Encoders
// ---------------------------------------------------------------------------

// renumber returns the vertices used by faces in first-use order and the
// faces rewritten against that order.
func renumber(verts []v3.Vec, faces [][]int) ([]v3.Vec, [][]int) {
	index := make(map[int]int, len(verts))
	var outV []v3.Vec
	outF := make([][]int, len(faces))
	for fi, f := range faces {
		nf := make([]int, len(f))
		for k, i := range f {
			j, ok := index[i]
			if !ok {
				j = len(outV)
				index[i] = j
				outV = append(outV, verts[i])
			}
			nf[k] = j
		}
		outF[fi] = nf
	}
	return outV, outF
}

func writeOFF(w io.Writer, m *mesh.Mesh, res int, meta Metadata) error {
	verts, faces := renumber(m.Vertices, m.Faces)
	var b strings.Builder
	b.WriteString("OFF\n")
	fmt.Fprintf(&b, "# resolution: %d\n", res)
	if meta.PartName != "" {
		fmt.Fprintf(&b, "# part: %s\n", oneLine(meta.PartName))
	}
	fmt.Fprintf(&b, "%d %d 0\n", len(verts), len(faces))
	for _, v := range verts {
		b.WriteString(vec(v))
		b.WriteByte('\n')
	}
	for _, f := range faces {
		b.WriteString(strconv.Itoa(len(f)))
		for _, i := range f {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(i))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("export: off: %w", err)
	}
	return nil
}

func writeSTL(w io.Writer, m *mesh.Mesh, res int, meta Metadata) error {
	tris := m.Triangulate()
	tris.PartName = meta.PartName
	name := "kerf"
	if tris.PartName != "" {
		name = strings.ReplaceAll(oneLine(tris.PartName), " ", "_")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "solid %s resolution %d\n", name, res)
	for t := 0; t < tris.TriangleCount(); t++ {
		fmt.Fprintf(&b, "  facet normal %s\n    outer loop\n", vec(tris.Normals[t]))
		for k := range 3 {
			fmt.Fprintf(&b, "      vertex %s\n", vec(tris.Vertices[tris.Indices[3*t+k]]))
		}
		b.WriteString("    endloop\n  endfacet\n")
	}
	fmt.Fprintf(&b, "endsolid %s\n", name)
	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("export: stl: %w", err)
	}
	return nil
}

func vec(v v3.Vec) string {
	return num(v.X) + " " + num(v.Y) + " " + num(v.Z)
}

// num formats x at fixed precision. Values that round to zero print as
// positive zero.
func num(x float64) string {
	s := strconv.FormatFloat(x, 'f', precision, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
