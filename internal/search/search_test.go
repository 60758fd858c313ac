package search

import (
	"sync/atomic"
	"testing"
	"time"
)

type named struct {
	id   int
	name string
}

func nameOf(n named) string { return n.name }

func TestMatch(t *testing.T) {
	tests := []struct {
		name, query string
		want        bool
	}{
		{"Old Building", "", true},
		{"Old Building", "   ", false},
		{"Old Building", " ", true},
		{"Old Building", "build", true},
		{"Old Building", "  OLD ", false},
		{"Old Building", "OLD ", true},
		{"Old Building", "new", false},
		{"Dr. Sarah", "r. s", true},
	}

	for _, tt := range tests {
		if got := Match(tt.name, tt.query); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.name, tt.query, got, tt.want)
		}
	}
}

func TestFilter_KeepsOrder(t *testing.T) {
	items := []named{{1, "Room A"}, {2, "Lab"}, {3, "room b"}}

	got := Filter(items, "ROOM", nameOf)
	if len(got) != 2 || got[0].id != 1 || got[1].id != 3 {
		t.Errorf("unexpected result %+v", got)
	}

	if got := Filter([]named(nil), "x", nameOf); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFilter_WhitespaceIsLiteral(t *testing.T) {
	items := []named{{1, "Room 1"}, {2, "Roomy"}, {3, "Lab"}}

	got := Filter(items, "Room ", nameOf)
	if len(got) != 1 || got[0].id != 1 {
		t.Errorf("trailing space must take part in the match, got %+v", got)
	}

	if got := Filter(items, "   ", nameOf); len(got) != 0 {
		t.Errorf("blank query should match nothing, got %+v", got)
	}

	if got := Filter(items, "", nameOf); len(got) != 3 {
		t.Errorf("empty query should keep every record, got %+v", got)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	tests := []struct {
		page, size int
		wantPage   int
		wantItems  []int
		wantPages  int
	}{
		{1, 5, 1, []int{1, 2, 3, 4, 5}, 3},
		{3, 5, 3, []int{11, 12}, 3},
		{9, 5, 3, []int{11, 12}, 3},
		{0, 5, 1, []int{1, 2, 3, 4, 5}, 3},
		{1, 0, 1, items, 1},
	}

	for _, tt := range tests {
		got := Paginate(items, tt.page, tt.size)
		if got.Page != tt.wantPage || got.TotalPages != tt.wantPages || got.Total != len(items) {
			t.Errorf("Paginate(page=%d,size=%d) = %+v", tt.page, tt.size, got)
		}
		if len(got.Items) != len(tt.wantItems) {
			t.Errorf("Paginate(page=%d,size=%d) items = %v, want %v", tt.page, tt.size, got.Items, tt.wantItems)
			continue
		}
		for i := range got.Items {
			if got.Items[i] != tt.wantItems[i] {
				t.Errorf("Paginate(page=%d,size=%d) items = %v, want %v", tt.page, tt.size, got.Items, tt.wantItems)
				break
			}
		}
	}

	empty := Paginate([]int{}, 2, 5)
	if empty.Page != 1 || empty.TotalPages != 1 || len(empty.Items) != 0 {
		t.Errorf("unexpected empty page %+v", empty)
	}
}

func TestDebouncer_LastWriterWins(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls, last atomic.Int64

	for i := int64(1); i <= 5; i++ {
		i := i
		d.Do(func() {
			calls.Add(1)
			last.Store(i)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)

	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
	if last.Load() != 5 {
		t.Errorf("expected last submitted call to run, got %d", last.Load())
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int64

	d.Do(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(60 * time.Millisecond)

	if calls.Load() != 0 {
		t.Errorf("stopped debouncer still fired %d times", calls.Load())
	}
}

func TestLiveFilter_DebouncesQuery(t *testing.T) {
	f := NewLiveFilter(30*time.Millisecond, nameOf)
	defer f.Close()
	f.SetItems([]named{{1, "Old Building"}, {2, "New Building"}, {3, "Annex"}})

	f.SetQuery("b")
	f.SetQuery("bu")
	f.SetQuery("new")

	view := f.View()
	if view.Query != "" || view.Pending != "new" || len(view.Items) != 3 {
		t.Errorf("query applied before debounce elapsed: %+v", view)
	}

	time.Sleep(120 * time.Millisecond)

	view = f.View()
	if view.Query != "new" || len(view.Items) != 1 || view.Items[0].id != 2 {
		t.Errorf("unexpected view after debounce: %+v", view)
	}
}

func TestLiveFilter_SetItemsRefiltersImmediately(t *testing.T) {
	f := NewLiveFilter(10*time.Millisecond, nameOf)
	defer f.Close()
	f.SetQuery("room")
	f.Flush()

	f.SetItems([]named{{1, "Room 1"}, {2, "Lab"}})
	if got := f.View().Items; len(got) != 1 || got[0].id != 1 {
		t.Errorf("unexpected items %+v", got)
	}

	f.SetItems([]named{{1, "Room 1"}, {2, "Lab"}, {3, "Room 3"}})
	if got := f.View().Items; len(got) != 2 {
		t.Errorf("unexpected items %+v", got)
	}
}
