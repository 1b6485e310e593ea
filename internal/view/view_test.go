package view

import (
	"testing"
	"time"

	"filechat-lite/internal/model"
)

func TestDayLabel(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"now", now, "Today"},
		{"start of today", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), "Today"},
		{"24 hours earlier", now.Add(-24 * time.Hour), "Yesterday"},
		{"late yesterday", time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{"ten days earlier", now.Add(-10 * 24 * time.Hour), "Oct 8, 2026"},
		{"previous year", time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC), "Jan 2, 2025"},
	}
	for _, tc := range tests {
		if got := DayLabel(tc.ts, now); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestDayLabel_UsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2026, 10, 18, 1, 0, 0, 0, loc)
	// 2026-10-17 23:00 UTC is already the 18th in UTC+3
	ts := time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)
	if got := DayLabel(ts, now); got != "Today" {
		t.Fatalf("expected Today, got %q", got)
	}
}

func TestDayLabel_MonthBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if got := DayLabel(time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC), now); got != "Yesterday" {
		t.Fatalf("expected Yesterday, got %q", got)
	}
}

func TestGroupByDay_FirstSeenOrder(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	msgs := []model.MessageRecord{
		{ID: "1", Timestamp: now},
		{ID: "2", Timestamp: now.Add(-24 * time.Hour)},
		{ID: "3", Timestamp: now.Add(-time.Minute)},
		{ID: "4", Timestamp: now.Add(-10 * 24 * time.Hour)},
	}

	groups := GroupByDay(msgs, now)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	wantLabels := []string{"Today", "Yesterday", "Oct 8, 2026"}
	for i, want := range wantLabels {
		if groups[i].Label != want {
			t.Fatalf("group %d: expected %q, got %q", i, want, groups[i].Label)
		}
	}
	if len(groups[0].Messages) != 2 || groups[0].Messages[0].ID != "1" || groups[0].Messages[1].ID != "3" {
		t.Fatalf("unexpected today group: %+v", groups[0].Messages)
	}
}

func TestGroupByDay_Empty(t *testing.T) {
	groups := GroupByDay(nil, time.Now())
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty non-nil groups, got %#v", groups)
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2026, 10, 18, 15, 4, 0, 0, time.UTC)
	if got := FormatTime(ts, time.UTC); got != "3:04 PM" {
		t.Fatalf("expected 3:04 PM, got %q", got)
	}
	if got := FormatTime(ts.Add(-15*time.Hour), time.UTC); got != "12:04 AM" {
		t.Fatalf("expected 12:04 AM, got %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		0:                "0 Bytes",
		1:                "1 Bytes",
		1023:             "1023 Bytes",
		1024:             "1 KB",
		1536:             "1.5 KB",
		1234567:          "1.18 MB",
		5 * 1024 * 1024:  "5 MB",
		3 << 30:          "3 GB",
		2 << 40:          "2 TB",
		4096 * (1 << 40): "4096 TB",
	}
	for in, want := range tests {
		if got := FormatFileSize(in); got != want {
			t.Fatalf("FormatFileSize(%d): expected %q, got %q", in, want, got)
		}
	}
}

func TestFileKind(t *testing.T) {
	tests := map[string]string{
		"image/png":                     "image",
		"video/mp4":                     "video",
		"audio/mpeg":                    "audio",
		"application/pdf":               "pdf",
		"application/msword":            "document",
		"application/vnd.ms-excel":      "spreadsheet",
		"application/vnd.ms-powerpoint": "presentation",
		"application/zip":               "archive",
		"text/plain":                    "other",
		"":                              "other",
	}
	for in, want := range tests {
		if got := FileKind(in); got != want {
			t.Fatalf("FileKind(%q): expected %q, got %q", in, want, got)
		}
	}
}
