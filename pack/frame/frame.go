package frame

import (
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mogaika/cache_model_browser/pack"
	"github.com/mogaika/cache_model_browser/status"
	"github.com/mogaika/cache_model_browser/utils"
	"github.com/mogaika/cache_model_browser/vfs"
)

const (
	FRAME_HEADER_SIZE = 3

	// translation used by scale slots for axis without delta
	SCALE_DEFAULT = 128
)

const (
	OP_X = 1 << iota
	OP_Y
	OP_Z
)

// Transform is translation (or scale/rotation depending on slot type) applied to slot
type Transform struct {
	Slot    int
	X, Y, Z int32
}

type Frame struct {
	Id         int
	FrameMapId int
	Transforms []Transform
	// frame changes visibility of mesh parts through alpha slot
	Showing bool
	OpCount int
}

// NewFromData decodes frame. Every nonzero opcode emits transform for its slot,
// non origin slots first emit zero transform for nearest skipped origin slot.
func NewFromData(id int, data []byte, maps FrameMapSource) (*Frame, error) {
	header := utils.NewCursor("frame header", data)
	f := &Frame{
		Id:         id,
		FrameMapId: int(header.U16()),
		OpCount:    int(header.U8()),
	}
	if err := header.Err(); err != nil {
		return nil, errors.Wrapf(ErrMalformedFrame, "frame %d: %v", id, err)
	}

	fm, err := maps.FrameMap(f.FrameMapId)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %d", id)
	}
	if f.OpCount > fm.SlotCount() {
		return nil, errors.Wrapf(ErrMalformedFrame, "frame %d: %d ops for %d slots of framemap %d",
			id, f.OpCount, fm.SlotCount(), fm.Id)
	}

	ops := header
	deltas := header.At("frame deltas", FRAME_HEADER_SIZE+f.OpCount)

	f.Transforms = make([]Transform, 0, f.OpCount)
	lastSlot := -1
	for i := 0; i < f.OpCount; i++ {
		op := ops.U8()
		if op == 0 {
			continue
		}

		slotType := fm.Types[i]
		if slotType != SLOT_ORIGIN {
			for j := i - 1; j > lastSlot; j-- {
				if fm.Types[j] == SLOT_ORIGIN {
					f.Transforms = append(f.Transforms, Transform{Slot: j})
					break
				}
			}
		}

		var def int32
		if slotType == SLOT_SCALE {
			def = SCALE_DEFAULT
		}
		tr := Transform{Slot: i, X: def, Y: def, Z: def}
		if op&OP_X != 0 {
			tr.X = deltas.SmallSmart()
		}
		if op&OP_Y != 0 {
			tr.Y = deltas.SmallSmart()
		}
		if op&OP_Z != 0 {
			tr.Z = deltas.SmallSmart()
		}
		f.Transforms = append(f.Transforms, tr)

		if slotType == SLOT_ALPHA {
			f.Showing = true
		}
		lastSlot = i
	}

	for _, c := range []*utils.Cursor{ops, deltas} {
		if err := c.Err(); err != nil {
			return nil, errors.Wrapf(ErrMalformedFrame, "frame %d: %v", id, err)
		}
	}
	return f, nil
}

func (f *Frame) Marshal() (interface{}, error) {
	return f, nil
}

func init() {
	pack.SetHandler(".FRAME", func(src pack.ResourceSource, data []byte) (interface{}, error) {
		f, err := NewFromData(pack.ResourceId(src.Name()), data, DirectoryFrameMaps{Dir: src.Directory()})
		if err != nil {
			status.Error("Frame %s: %v", src.Name(), err)
			return nil, err
		}
		return f, nil
	})
}

// ReadFile is shortcut for tools. Nil maps means framemaps lying near frame file.
func ReadFile(path string, maps FrameMapSource) (*Frame, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", path)
	}
	if maps == nil {
		maps = DirectoryFrameMaps{Dir: vfs.NewDirectoryDriver(filepath.Dir(path))}
	}
	return NewFromData(pack.ResourceId(path), data, maps)
}
