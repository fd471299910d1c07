package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lemonberrylabs/quickcalc/pkg/config"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

func ok(expr string, v float64) types.Result {
	return types.Result{Expression: expr, Value: v, Formatted: fmt.Sprint(v), OK: true}
}

// backends runs fn against every implementation.
func backends(t *testing.T, limit int, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		s := NewMemory(limit)
		defer s.Close()
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLite(filepath.Join(t.TempDir(), "history.db"), limit)
		if err != nil {
			t.Fatalf("NewSQLite: %v", err)
		}
		defer s.Close()
		fn(t, s)
	})
}

func TestAddGet(t *testing.T) {
	backends(t, 10, func(t *testing.T, s Store) {
		ctx := context.Background()
		e, err := s.Add(ctx, ok("2+2", 4))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if e.ID == "" || e.CreateTime.IsZero() {
			t.Fatalf("entry missing id or time: %+v", e)
		}

		got, err := s.Get(ctx, e.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Expression != "2+2" || got.Value != 4 || !got.OK || got.Formatted != "4" {
			t.Errorf("Get = %+v", got)
		}

		if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
	})
}

func TestFailedResultRoundTrip(t *testing.T) {
	backends(t, 10, func(t *testing.T, s Store) {
		ctx := context.Background()
		r := types.NewResult("1/0", 0, "", types.NewDomainError(1, "division by zero"))
		e, err := s.Add(ctx, r)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		got, err := s.Get(ctx, e.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.OK || got.ErrorKind != types.KindDomain || got.Error == "" {
			t.Errorf("failed result not preserved: %+v", got)
		}
		if got.Result() != r {
			t.Errorf("Result() = %+v, want %+v", got.Result(), r)
		}
	})
}

func TestListNewestFirstAndLimit(t *testing.T) {
	backends(t, 3, func(t *testing.T, s Store) {
		ctx := context.Background()
		for i := 1; i <= 5; i++ {
			if _, err := s.Add(ctx, ok(fmt.Sprintf("%d", i), float64(i))); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}

		all, err := s.List(ctx, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 entries after trimming, got %d", len(all))
		}
		for i, want := range []string{"5", "4", "3"} {
			if all[i].Expression != want {
				t.Errorf("entry %d = %s, want %s", i, all[i].Expression, want)
			}
		}

		two, err := s.List(ctx, 2)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(two) != 2 || two[0].Expression != "5" {
			t.Errorf("List(2) = %v", two)
		}
	})
}

func TestClear(t *testing.T) {
	backends(t, 0, func(t *testing.T, s Store) {
		ctx := context.Background()
		e, _ := s.Add(ctx, ok("1", 1))
		s.Add(ctx, ok("2", 2))
		if err := s.Clear(ctx); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		list, _ := s.List(ctx, 0)
		if len(list) != 0 {
			t.Errorf("expected empty history, got %d", len(list))
		}
		if _, err := s.Get(ctx, e.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("cleared entry still found: %v", err)
		}
	})
}

func TestConcurrentAdd(t *testing.T) {
	backends(t, 0, func(t *testing.T, s Store) {
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := s.Add(ctx, ok(fmt.Sprint(i), float64(i))); err != nil {
					t.Errorf("Add: %v", err)
				}
			}(i)
		}
		wg.Wait()
		list, err := s.List(ctx, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 20 {
			t.Errorf("expected 20 entries, got %d", len(list))
		}
	})
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := NewSQLite(path, 10)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	e, err := s.Add(context.Background(), ok("pi", 3.14))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Close()

	s, err = NewSQLite(path, 10)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Expression != "pi" || !got.CreateTime.Equal(e.CreateTime) {
		t.Errorf("reopened entry = %+v, want %+v", got, e)
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(config.HistoryConfig{Backend: config.BackendMemory, Limit: 5})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, isMem := s.(*Memory); !isMem {
		t.Errorf("expected *Memory, got %T", s)
	}

	s, err = Open(config.HistoryConfig{Backend: config.BackendSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	if _, isSQL := s.(*SQLite); !isSQL {
		t.Errorf("expected *SQLite, got %T", s)
	}
	s.Close()

	if _, err := Open(config.HistoryConfig{Backend: "redis"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
