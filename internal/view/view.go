// Package view holds display policies shared by the API responses: day
// buckets for messages, human readable sizes and coarse file kinds.
package view

import (
	"math"
	"strconv"
	"strings"
	"time"

	"filechat-lite/internal/model"
)

const (
	LabelToday     = "Today"
	LabelYesterday = "Yesterday"
)

type DayGroup struct {
	Label    string                `json:"label"`
	Messages []model.MessageRecord `json:"messages"`
}

// DayLabel buckets ts relative to now, using now's location as the local
// calendar.
func DayLabel(ts, now time.Time) string {
	loc := now.Location()
	ts = ts.In(loc)

	y, m, d := ts.Date()
	ny, nm, nd := now.Date()
	if y == ny && m == nm && d == nd {
		return LabelToday
	}
	yy, ym, yd := time.Date(ny, nm, nd-1, 0, 0, 0, 0, loc).Date()
	if y == yy && m == ym && d == yd {
		return LabelYesterday
	}
	return ts.Format("Jan 2, 2006")
}

// GroupByDay groups messages by DayLabel. Groups appear in the order their
// first message is encountered; messages keep their stored order.
func GroupByDay(msgs []model.MessageRecord, now time.Time) []DayGroup {
	groups := make([]DayGroup, 0)
	index := make(map[string]int)
	for _, msg := range msgs {
		label := DayLabel(msg.Timestamp, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DayGroup{Label: label})
		}
		groups[i].Messages = append(groups[i].Messages, msg)
	}
	return groups
}

// FormatTime renders a message time as "3:04 PM" in loc.
func FormatTime(ts time.Time, loc *time.Location) string {
	return ts.In(loc).Format("3:04 PM")
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders bytes with base-1024 units and at most two decimals.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// FileKind classifies a MIME type for display.
func FileKind(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio"
	case strings.Contains(mimeType, "pdf"):
		return "pdf"
	case strings.Contains(mimeType, "word"), strings.Contains(mimeType, "document"):
		return "document"
	case strings.Contains(mimeType, "sheet"), strings.Contains(mimeType, "excel"):
		return "spreadsheet"
	case strings.Contains(mimeType, "presentation"), strings.Contains(mimeType, "powerpoint"):
		return "presentation"
	case strings.Contains(mimeType, "zip"), strings.Contains(mimeType, "compressed"):
		return "archive"
	default:
		return "other"
	}
}
