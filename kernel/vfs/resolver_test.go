package vfs

import "testing"

type fakeNode struct {
	name     string
	typ      NodeType
	children []Node
}

func (n *fakeNode) Name() string   { return n.name }
func (n *fakeNode) Type() NodeType { return n.typ }

func (n *fakeNode) Children() ([]Node, error) {
	return n.children, nil
}

var _ DirectoryNode = (*fakeNode)(nil)

type fakeFilesystem struct {
	root Node
}

func (fs *fakeFilesystem) RootNode() Node { return fs.root }

func buildTestTree() Node {
	file := &fakeNode{name: "file.txt", typ: NodeFile}
	sub := &fakeNode{name: "sub", typ: NodeDirectory, children: []Node{file}}
	bin := &fakeNode{name: "bin", typ: NodeDirectory}
	root := &fakeNode{name: "", typ: NodeDirectory, children: []Node{sub, bin}}
	return root
}

func TestVfsResolverFindWalksFromRoot(t *testing.T) {
	r := NewVfsResolver()
	if err := r.Mount(nil, &fakeFilesystem{root: buildTestTree()}); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	node, err := r.Find([]string{"sub", "file.txt"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if node.Name() != "file.txt" {
		t.Fatalf("Find() = %q, want file.txt", node.Name())
	}
}

func TestVfsResolverFindRoot(t *testing.T) {
	r := NewVfsResolver()
	root := buildTestTree()
	if err := r.Mount(nil, &fakeFilesystem{root: root}); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	node, err := r.Find(nil)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if node != root {
		t.Fatal("Find(nil) should return the mounted filesystem's root node")
	}
}

func TestVfsResolverFindMissingComponent(t *testing.T) {
	r := NewVfsResolver()
	if err := r.Mount(nil, &fakeFilesystem{root: buildTestTree()}); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if _, err := r.Find([]string{"nope"}); err != ErrNotFound {
		t.Fatalf("Find() error = %v, want ErrNotFound", err)
	}
}

func TestVfsResolverFindThroughFile(t *testing.T) {
	r := NewVfsResolver()
	if err := r.Mount(nil, &fakeFilesystem{root: buildTestTree()}); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if _, err := r.Find([]string{"sub", "file.txt", "nested"}); err != ErrNotADirectory {
		t.Fatalf("Find() error = %v, want ErrNotADirectory", err)
	}
}

func TestVfsResolverOpenBypassesWalk(t *testing.T) {
	r := NewVfsResolver()
	if err := r.Mount(nil, &fakeFilesystem{root: buildTestTree()}); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	pinned := &fakeNode{name: "pinned", typ: NodeFile}
	r.Open([]string{"sub", "special"}, pinned)

	node, err := r.Find([]string{"sub", "special"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if node != pinned {
		t.Fatal("expected Find() to return the opened node directly")
	}
}

func TestVfsResolverUnmountRejectsUnknownPath(t *testing.T) {
	r := NewVfsResolver()
	if err := r.Unmount([]string{"nowhere"}); err != ErrNotMounted {
		t.Fatalf("Unmount() error = %v, want ErrNotMounted", err)
	}
}

func TestVfsResolverMountRejectsDuplicate(t *testing.T) {
	r := NewVfsResolver()
	fs := &fakeFilesystem{root: buildTestTree()}
	if err := r.Mount(nil, fs); err != nil {
		t.Fatalf("first Mount() error = %v", err)
	}
	if err := r.Mount(nil, fs); err != ErrAlreadyMounted {
		t.Fatalf("second Mount() error = %v, want ErrAlreadyMounted", err)
	}
}

func TestVfsResolverCachesParentNotTarget(t *testing.T) {
	root := buildTestTree()
	r := NewVfsResolver()
	if err := r.Mount(nil, &fakeFilesystem{root: root}); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	node, err := r.Find([]string{"sub", "file.txt"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if node.Name() != "file.txt" {
		t.Fatalf("Find() = %q, want file.txt", node.Name())
	}

	sub, ok := r.cached.GetExact([]string{"sub"})
	if !ok {
		t.Fatal("expected the resolved node's parent to be cached")
	}
	if sub.Name() != "sub" {
		t.Fatalf("cached entry = %q, want sub", sub.Name())
	}

	if _, ok := r.cached.GetExact([]string{"sub", "file.txt"}); ok {
		t.Fatal("the resolved target itself must not be cached")
	}
}

func TestVfsResolverCacheUnchangedWhenDistanceIsOne(t *testing.T) {
	root := buildTestTree()
	sub := root.(*fakeNode).children[0]
	r := NewVfsResolver()
	if err := r.Mount(nil, &fakeFilesystem{root: root}); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	r.cached.Set([]string{"sub"}, sub)

	node, err := r.Find([]string{"sub", "file.txt"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if node.Name() != "file.txt" {
		t.Fatalf("Find() = %q, want file.txt", node.Name())
	}

	cached, ok := r.cached.GetExact([]string{"sub"})
	if !ok || cached != sub {
		t.Fatal("expected the pre-existing cache entry at distance 1 to be left unchanged")
	}
	if r.cached.Count() != 1 {
		t.Fatalf("cached.Count() = %d, want 1 (no new entry for a distance-1 hit)", r.cached.Count())
	}
}

func TestVfsResolverFindRejectsEmptyComponent(t *testing.T) {
	r := NewVfsResolver()
	if err := r.Mount(nil, &fakeFilesystem{root: buildTestTree()}); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if _, err := r.Find([]string{"sub", "", "file.txt"}); err != ErrInvalidPath {
		t.Fatalf("Find() error = %v, want ErrInvalidPath", err)
	}
}
