package syscall

import "testing"

func TestClassValid(t *testing.T) {
	if !ClassFile.valid() {
		t.Fatal("expected ClassFile to be a valid class")
	}
	if Class(numClasses).valid() {
		t.Fatal("expected numClasses itself to be invalid")
	}
}

func TestClassOrderingMatchesRawFnClass(t *testing.T) {
	// Pinned to the original kernel's raw_fn_class numbering so the two
	// stay wire-compatible.
	want := []Class{
		ClassObjConfig, ClassTaskConfig, ClassOSEntConfig, ClassObject,
		ClassTask, ClassDevice, ClassDir, ClassFile, ClassIpcChan,
		ClassIterator, ClassLink, ClassMMap, ClassMutex, ClassTimeInst,
		ClassPath, ClassOSEntity, ClassOSUser, ClassOSGroup, ClassProc,
		ClassThread,
	}
	for i, c := range want {
		if int(c) != i {
			t.Fatalf("class %v = %d, want %d", c, c, i)
		}
	}
}
