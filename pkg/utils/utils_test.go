package utils

import (
	"testing"
	"time"
)

func TestSnowflakeIDUnique(t *testing.T) {
	gen := NewSnowflakeID(1)
	seen := make(map[int64]bool, 1000)
	var prev int64
	for i := 0; i < 1000; i++ {
		id := gen.Generate()
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		if id < prev {
			t.Fatalf("ids not monotonic: %d after %d", id, prev)
		}
		seen[id] = true
		prev = id
	}
}

func TestPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	if p.Offset() != 10 || p.Limit() != 10 {
		t.Errorf("offset/limit = %d/%d, want 10/10", p.Offset(), p.Limit())
	}
	if p.Pages != 4 {
		t.Errorf("pages = %d, want 4", p.Pages)
	}

	// 非法入参回退到默认值
	p = NewPagination(0, 0, 0)
	if p.Page != 1 || p.PageSize != 20 {
		t.Errorf("defaults = %d/%d, want 1/20", p.Page, p.PageSize)
	}

	// page_size 上限
	p = NewPagination(1, 1000, 0)
	if p.PageSize != 100 {
		t.Errorf("page size cap = %d, want 100", p.PageSize)
	}
}

func TestRandDigits(t *testing.T) {
	code := RandDigits(6)
	if len(code) != 6 {
		t.Fatalf("len = %d, want 6", len(code))
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("non-digit %q in code %s", c, code)
		}
	}
}

func TestRetry(t *testing.T) {
	attempts := 0
	err := Retry(3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return errTest
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "test error" }
