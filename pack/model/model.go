package model

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/cache_model_browser/config"
	"github.com/mogaika/cache_model_browser/pack"
	"github.com/mogaika/cache_model_browser/status"
	"github.com/mogaika/cache_model_browser/utils"
)

var (
	ErrMalformedBuffer  = errors.New("malformed model buffer")
	ErrInvalidReference = errors.New("invalid model reference")
)

func IsMalformed(err error) bool {
	return errors.Cause(err) == ErrMalformedBuffer
}

func IsInvalidReference(err error) bool {
	return errors.Cause(err) == ErrInvalidReference
}

type RenderType uint8

const (
	RenderSmooth RenderType = 0
	RenderFlat   RenderType = 1
)

const (
	NoTexture  = -1
	NoTexCoord = -1

	// colour slot value of old format triangles that carry texture instead
	OldTexturedColor = 127
)

type Flags uint8

const (
	HasRenderTypes Flags = 1 << iota
	HasAlphas
	HasTriangleSkins
	HasTextures
	HasTexCoords
	HasVertexSkins
)

var flagNames = []string{"render_types", "alphas", "triangle_skins", "textures", "tex_coords", "vertex_skins"}

func (f Flags) Has(o Flags) bool {
	return f&o == o
}

func (f Flags) Names() []string {
	names := make([]string, 0, len(flagNames))
	for i, name := range flagNames {
		if f.Has(1 << uint(i)) {
			names = append(names, name)
		}
	}
	return names
}

func (f Flags) String() string {
	return strings.Join(f.Names(), "|")
}

func (f Flags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

func (f Flags) MarshalYAML() (interface{}, error) {
	return f.Names(), nil
}

// Priority is either one value for whole model or per triangle value stored in Triangle.Priority
type Priority struct {
	PerTriangle bool
	Value       uint8
}

type Vertex struct {
	X, Y, Z int32
	Skin    uint8
}

type Triangle struct {
	A, B, C    int32
	Color      uint16
	RenderType RenderType
	Priority   uint8
	Alpha      uint8
	Skin       uint8
	Texture    int32 // NoTexture if absent
	TexCoord   int32 // index of texture triangle, NoTexCoord for default mapping
}

func (t *Triangle) Vertices() [3]int32 {
	return [3]int32{t.A, t.B, t.C}
}

type TextureTriangle struct {
	RenderType uint8
	A, B, C    uint16
}

type Model struct {
	Id       int
	Format   Format
	Flags    Flags
	Priority Priority

	Vertices         []Vertex
	Triangles        []Triangle
	TextureTriangles []TextureTriangle

	NormalAccumulators []VertexNormalAccumulator `json:"-"`
	VertexNormals      []mgl32.Vec3              `json:",omitempty"`
	FaceNormals        []*FaceNormal             `json:",omitempty"`
	TextureUVs         []*TriangleUV             `json:",omitempty"`
}

func (m *Model) VertexCount() int          { return len(m.Vertices) }
func (m *Model) TriangleCount() int        { return len(m.Triangles) }
func (m *Model) TextureTriangleCount() int { return len(m.TextureTriangles) }

func (m *Model) renderType(iTriangle int) RenderType {
	if !m.Flags.Has(HasRenderTypes) {
		return RenderSmooth
	}
	return m.Triangles[iTriangle].RenderType
}

func (m *Model) position(iVertex int32) mgl32.Vec3 {
	v := &m.Vertices[iVertex]
	return utils.Vec3FromInts(v.X, v.Y, v.Z)
}

// NewFromData decodes raw model buffer without computing derived geometry
func NewFromData(id int, data []byte, exlog *utils.Logger) (*Model, error) {
	l, err := ResolveLayout(data, exlog)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Id:               id,
		Format:           l.Format,
		Vertices:         make([]Vertex, l.VertexCount),
		Triangles:        make([]Triangle, l.TriangleCount),
		TextureTriangles: make([]TextureTriangle, l.TextureTriangleCount),
	}
	for i := range m.Triangles {
		m.Triangles[i].Texture = NoTexture
		m.Triangles[i].TexCoord = NoTexCoord
	}
	if l.Priority == PriorityPerTriangle {
		m.Priority.PerTriangle = true
	} else {
		m.Priority.Value = l.Priority
	}

	base := utils.NewCursor("model", data)
	if err := m.decodeVertices(base, l); err != nil {
		return nil, err
	}

	if l.Format == FormatNew {
		err = m.decodeNew(base, l)
	} else {
		err = m.decodeOld(base, l)
	}
	if err != nil {
		return nil, err
	}

	exlog.Printf("decoded: vertices %d triangles %d texture triangles %d flags [%v] priority %+v",
		len(m.Vertices), len(m.Triangles), len(m.TextureTriangles), m.Flags, m.Priority)
	return m, nil
}

// Decode decodes model and computes normals and texture coordinates
func Decode(id int, data []byte, exlog *utils.Logger) (*Model, error) {
	m, err := NewFromData(id, data, exlog)
	if err != nil {
		return nil, err
	}
	m.ComputeNormals()
	m.ComputeTextureCoordinates()
	return m, nil
}

func (m *Model) decodeNew(base *utils.Cursor, l *Layout) error {
	m.Flags = l.flags()
	if err := m.decodeTriangleFieldsNew(base, l); err != nil {
		return err
	}
	if err := m.decodeTriangles(base, l); err != nil {
		return err
	}
	if err := m.decodeTextureTrianglesNew(base, l); err != nil {
		return err
	}
	return m.validateReferences()
}

func (m *Model) decodeOld(base *utils.Cursor, l *Layout) error {
	m.Flags = l.flags()
	info, err := m.decodeTriangleFieldsOld(base, l)
	if err != nil {
		return err
	}
	if err := m.decodeTriangles(base, l); err != nil {
		return err
	}
	if err := m.decodeTextureTrianglesOld(base, l); err != nil {
		return err
	}
	if err := m.validateReferences(); err != nil {
		return err
	}
	m.cleanupOld(info)
	return nil
}

func cursorsError(cursors ...*utils.Cursor) error {
	for _, c := range cursors {
		if err := c.Err(); err != nil {
			return errors.Wrapf(ErrMalformedBuffer, "%v", err)
		}
	}
	return nil
}

func (m *Model) Marshal() (interface{}, error) {
	return m, nil
}

func openDecodeLog(name string) (*utils.Logger, func()) {
	dir := config.GetLogsDir()
	if dir == "" {
		return nil, func() {}
	}
	fpath := filepath.Join(dir, fmt.Sprintf("%s.log", name))
	os.MkdirAll(filepath.Dir(fpath), 0777)
	f, err := os.Create(fpath)
	if err != nil {
		log.Printf("[model] Cannot create decode log %q: %v", fpath, err)
		return nil, func() {}
	}
	return &utils.Logger{Writer: f}, func() { f.Close() }
}

func init() {
	pack.SetHandler(".MODEL", func(src pack.ResourceSource, data []byte) (interface{}, error) {
		exlog, closeLog := openDecodeLog(src.Name())
		defer closeLog()

		status.Info("Decoding model %s", src.Name())
		m, err := Decode(pack.ResourceId(src.Name()), data, exlog)
		if err != nil {
			status.Error("Model %s: %v", src.Name(), err)
			return nil, errors.Wrapf(err, "model %q", src.Name())
		}
		return m, nil
	})
}

// ReadFile is shortcut for tools
func ReadFile(path string, exlog *utils.Logger) (*Model, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", path)
	}
	return Decode(pack.ResourceId(filepath.Base(path)), data, exlog)
}
