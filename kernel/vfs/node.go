package vfs

import "github.com/Mek101/meetixos-sub000/kernel"

// NodeType distinguishes the two kinds of VFS node.
type NodeType uint8

const (
	NodeFile NodeType = iota
	NodeDirectory
)

// Node is anything the VFS tree can resolve a path to: a file or a
// directory, backed by whichever Filesystem owns it.
type Node interface {
	Name() string
	Type() NodeType
}

// DirectoryNode is a Node that can list its children. Find type-asserts
// every intermediate Node to this interface and checks that its Type is
// NodeDirectory while walking a path; a File encountered mid-path fails
// the walk with ErrNotADirectory.
type DirectoryNode interface {
	Node
	Children() ([]Node, error)
}

// Filesystem is a mounted filesystem implementation: VfsResolver only ever
// needs its root node to begin walking.
type Filesystem interface {
	RootNode() Node
}

// Errors returned while resolving a path to a node.
var (
	ErrNotFound       = &kernel.Error{Module: "vfs", Message: "no such file or directory"}
	ErrNotADirectory  = &kernel.Error{Module: "vfs", Message: "path component is not a directory"}
	ErrInvalidPath    = &kernel.Error{Module: "vfs", Message: "path is empty or malformed"}
	ErrAlreadyMounted = &kernel.Error{Module: "vfs", Message: "a filesystem is already mounted at this path"}
	ErrNotMounted     = &kernel.Error{Module: "vfs", Message: "no filesystem is mounted at this path"}
)
