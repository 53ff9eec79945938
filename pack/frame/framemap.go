package frame

import (
	"io"
	"io/ioutil"
	"log"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/cache_model_browser/pack"
	"github.com/mogaika/cache_model_browser/utils"
	"github.com/mogaika/cache_model_browser/vfs"
)

// Slot types with special meaning for frame decoding
const (
	SLOT_ORIGIN    = 0
	SLOT_TRANSLATE = 1
	SLOT_ROTATE    = 2
	SLOT_SCALE     = 3
	SLOT_ALPHA     = 5
)

var (
	ErrMalformedFrame  = errors.New("malformed frame buffer")
	ErrUnknownFrameMap = errors.New("unknown frame map")
)

// FrameMap is bone type table shared by frames of one skeleton
type FrameMap struct {
	Id    int     `yaml:"id"`
	Types []int   `yaml:"types"`
	Bones [][]int `yaml:"bones"`
}

func NewFrameMapFromData(id int, data []byte) (*FrameMap, error) {
	c := utils.NewCursor("framemap", data)
	count := int(c.U8())

	fm := &FrameMap{
		Id:    id,
		Types: make([]int, count),
		Bones: make([][]int, count),
	}
	for i := range fm.Types {
		fm.Types[i] = int(c.U8())
	}
	for i := range fm.Bones {
		fm.Bones[i] = make([]int, c.U8())
		for j := range fm.Bones[i] {
			fm.Bones[i][j] = int(c.U8())
		}
	}

	if err := c.Err(); err != nil {
		return nil, errors.Wrapf(ErrMalformedFrame, "framemap %d: %v", id, err)
	}
	return fm, nil
}

func (fm *FrameMap) SlotCount() int {
	return len(fm.Types)
}

func LoadFrameMapYAML(path string) (*FrameMap, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", path)
	}
	var fm FrameMap
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse %q", path)
	}
	if len(fm.Bones) != len(fm.Types) {
		return nil, errors.Errorf("framemap %q: %d bone lists for %d types", path, len(fm.Bones), len(fm.Types))
	}
	return &fm, nil
}

func (fm *FrameMap) SaveYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return errors.Wrapf(err, "Failed to encode framemap %d", fm.Id)
	}
	return enc.Close()
}

func (fm *FrameMap) Marshal() (interface{}, error) {
	return fm, nil
}

// FrameMapSource resolves frame map by id
type FrameMapSource interface {
	FrameMap(id int) (*FrameMap, error)
}

// FrameMaps is in memory source, used by tools with explicitly loaded maps
type FrameMaps map[int]*FrameMap

func (fms FrameMaps) FrameMap(id int) (*FrameMap, error) {
	if fm, ok := fms[id]; ok {
		return fm, nil
	}
	return nil, errors.Wrapf(ErrUnknownFrameMap, "id %d", id)
}

// DirectoryFrameMaps loads "<id>.framemap" from same directory frame came from
type DirectoryFrameMaps struct {
	Dir vfs.Directory
}

func (dfm DirectoryFrameMaps) FrameMap(id int) (*FrameMap, error) {
	name := FrameMapFileName(id)
	inst, err := pack.GetInstanceHandler(dfm.Dir, name)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownFrameMap, "%s: %v", name, err)
	}
	fm, ok := inst.(*FrameMap)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFrameMap, "%s is %T", name, inst)
	}
	return fm, nil
}

func FrameMapFileName(id int) string {
	return strconv.Itoa(id) + ".framemap"
}

func init() {
	pack.SetHandler(".FRAMEMAP", func(src pack.ResourceSource, data []byte) (interface{}, error) {
		fm, err := NewFrameMapFromData(pack.ResourceId(src.Name()), data)
		if err != nil {
			log.Printf("[frame] Failed to load %s: %v", src.Name(), err)
			return nil, err
		}
		return fm, nil
	})
}
