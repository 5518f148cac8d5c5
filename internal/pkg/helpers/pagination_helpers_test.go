package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestCalculateSliceIndices(t *testing.T) {
	tests := map[string]struct {
		page, size, total int
		start, end        int
	}{
		"first page":     {1, 10, 25, 0, 10},
		"last partial":   {3, 10, 25, 20, 25},
		"past the end":   {5, 10, 25, 25, 25},
		"defaults apply": {0, 0, 50, 0, 20},
		"empty":          {1, 10, 0, 0, 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			start, end := CalculateSliceIndices(tc.page, tc.size, tc.total)
			if start != tc.start || end != tc.end {
				t.Fatalf("got [%d,%d), want [%d,%d)", start, end, tc.start, tc.end)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 9, 20)
	if info.TotalPages != 3 || info.CurrentPage != 3 || info.TotalItems != 45 {
		t.Fatalf("info = %+v", info)
	}
	if empty := NewPaginationInfo(0, 1, 20); empty.TotalPages != 1 {
		t.Fatalf("empty first page must report one page, got %+v", empty)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/courses?page=2&size=500", nil)

	page, size := ParsePaginationParams(c)
	if page != 2 || size != DefaultPageSize {
		t.Fatalf("page=%d size=%d", page, size)
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("150ms", time.Second); got != 150*time.Millisecond {
		t.Fatalf("got %s", got)
	}
	if got := ParseDuration("soon", time.Second); got != time.Second {
		t.Fatalf("malformed input must fall back, got %s", got)
	}
	if got := ParseDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty input must fall back, got %s", got)
	}
}
