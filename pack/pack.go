package pack

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/cache_model_browser/utils"
	"github.com/mogaika/cache_model_browser/vfs"
)

// ResourceSource describes where resource buffer came from
type ResourceSource interface {
	Name() string
	Size() int64
	Directory() vfs.Directory
}

type FileLoader func(src ResourceSource, data []byte) (interface{}, error)

var gHandlers map[string]FileLoader = make(map[string]FileLoader, 0)

func SetHandler(format string, ldr FileLoader) {
	gHandlers[strings.ToUpper(format)] = ldr
}

func HasHandler(name string) bool {
	_, found := gHandlers[strings.ToUpper(filepath.Ext(name))]
	return found
}

func CallHandler(s ResourceSource, data []byte) (interface{}, error) {
	ext := strings.ToUpper(filepath.Ext(s.Name()))

	if h, found := gHandlers[ext]; found {
		return h(s, data)
	}
	return nil, errors.Errorf("[pack] Cannot find handler for '%s' extension", ext)
}

// ResourceId returns numeric id from file name stem ("12.model" => 12).
// Non numeric names are hashed the way cache indexes hash names.
func ResourceId(name string) int {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if id, err := strconv.Atoi(stem); err == nil {
		return id
	}
	return int(utils.NameHash(stem))
}

type PackResSrc struct {
	name string
	size int64
	d    vfs.Directory
}

func (s *PackResSrc) Name() string             { return s.name }
func (s *PackResSrc) Size() int64              { return s.size }
func (s *PackResSrc) Directory() vfs.Directory { return s.d }

func NewResSrc(d vfs.Directory, name string, size int64) *PackResSrc {
	return &PackResSrc{d: d, name: name, size: size}
}

func GetInstanceHandler(d vfs.Directory, fileName string) (interface{}, error) {
	data, err := vfs.DirectoryReadFile(d, fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get file '%s'", fileName)
	}

	inst, err := CallHandler(NewResSrc(d, fileName, int64(len(data))), data)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Handler error")
	}
	return inst, nil
}
