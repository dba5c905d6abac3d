package mount

import "testing"

func TestList_AddTail_Order(t *testing.T) {
	l := NewList()
	if err := l.AddTail(&Point{Destination: "a", isDir: DirYes}, nil); err != nil {
		t.Fatal(err)
	}
	if err := l.AddTail(&Point{Destination: "b", isDir: DirYes}, nil); err != nil {
		t.Fatal(err)
	}
	got := l.Points()
	if len(got) != 2 || got[0].Destination != "a" || got[1].Destination != "b" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestList_AddHead_Order(t *testing.T) {
	l := NewList()
	if err := l.AddTail(&Point{Destination: "a", isDir: DirYes}, nil); err != nil {
		t.Fatal(err)
	}
	if err := l.AddHead(&Point{Destination: "first", isDir: DirYes}, nil); err != nil {
		t.Fatal(err)
	}
	got := l.Points()
	if len(got) != 2 || got[0].Destination != "first" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestList_AddTail_EnvFailureLeavesListUnchanged(t *testing.T) {
	l := NewList()
	err := l.AddTail(&Point{Destination: "a", DestinationEnv: "MISSING", isDir: DirYes}, nil)
	if err == nil {
		t.Fatal("expected failure for unresolved destination-env")
	}
	if l.Len() != 0 {
		t.Errorf("expected list unchanged after failed add, got len %d", l.Len())
	}
}

func TestList_Len(t *testing.T) {
	l := NewList()
	if l.Len() != 0 {
		t.Errorf("new list should be empty")
	}
	if err := l.AddTail(&Point{isDir: DirYes}, nil); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestList_Describe(t *testing.T) {
	l := NewList()
	if err := l.AddTail(&Point{Destination: "a", isDir: DirYes, IsMandatory: true}, nil); err != nil {
		t.Fatal(err)
	}
	lines := l.Describe()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}
