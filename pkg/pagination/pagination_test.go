package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negatives, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected clamp to max, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestNormalizeZeroesNegativeOffset(t *testing.T) {
	p := Normalize(Params{Limit: 10, Offset: -5})
	if p.Offset != 0 {
		t.Fatalf("expected offset zeroed, got %d", p.Offset)
	}
}

func TestBuildMetaNilWhenEmpty(t *testing.T) {
	if meta := BuildMeta("/users", 0, Params{Limit: 10}); meta != nil {
		t.Fatalf("expected nil meta for empty collection")
	}
}

func TestBuildMetaFirstPage(t *testing.T) {
	meta := BuildMeta("/users", 60, Params{Limit: 25, Offset: 0})
	if meta == nil {
		t.Fatal("expected meta")
	}
	if meta.Total != 60 || meta.Limit != 25 || meta.Offset != 0 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if meta.Next == nil || *meta.Next != "/users?limit=25&offset=25" {
		t.Fatalf("unexpected next link %v", meta.Next)
	}
	if meta.Previous != nil {
		t.Fatalf("first page should not carry a previous link")
	}
}

func TestBuildMetaMiddlePage(t *testing.T) {
	meta := BuildMeta("/users", 60, Params{Limit: 25, Offset: 25})
	if meta.Next == nil || *meta.Next != "/users?limit=25&offset=50" {
		t.Fatalf("unexpected next link %v", meta.Next)
	}
	if meta.Previous == nil || *meta.Previous != "/users?limit=25&offset=0" {
		t.Fatalf("unexpected previous link %v", meta.Previous)
	}
}

func TestBuildMetaLastPage(t *testing.T) {
	meta := BuildMeta("/users", 60, Params{Limit: 25, Offset: 50})
	if meta.Next != nil {
		t.Fatalf("last page should not carry a next link")
	}
	if meta.Previous == nil || *meta.Previous != "/users?limit=25&offset=25" {
		t.Fatalf("unexpected previous link %v", meta.Previous)
	}
}

func TestBuildMetaClampsPreviousOffset(t *testing.T) {
	meta := BuildMeta("/users", 60, Params{Limit: 25, Offset: 10})
	if meta.Previous == nil || *meta.Previous != "/users?limit=25&offset=0" {
		t.Fatalf("previous offset should clamp at zero, got %v", meta.Previous)
	}
}
