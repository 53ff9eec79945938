package vfs

import (
	"io"
)

// Element must contain only metadata (filename) until List/Open/GetElement calls
type Element interface {
	Init(parent Directory)
	Name() string
	IsDirectory() bool
}

// File is read only view of cache resource buffer
type File interface {
	Element
	Size() int64
	Open() error
	Close() error
	Reader() (*io.SectionReader, error)
	ReadAt(b []byte, off int64) (n int, err error)
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}
