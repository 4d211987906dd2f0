package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	apperrors "engagemon/internal/platform/errors"
)

// Header is the fixed column order of an export.
var Header = []string{"timestamp", "emotion", "engagement", "context", "sentiment", "productivity_score"}

// Row is one exported record. Timestamps keep millisecond precision.
type Row struct {
	Timestamp         time.Time
	Emotion           string
	Engagement        string
	Context           string
	Sentiment         string
	ProductivityScore int
}

// FileName names an export written at t.
func FileName(t time.Time) string {
	return "engagement_data_" + t.Format("20060102_150405") + ".csv"
}

// Encode renders rows as CSV. An empty snapshot is ErrEmptyExport.
func Encode(rows []Row) ([]byte, error) {
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyExport
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			formatTimestamp(r.Timestamp),
			r.Emotion,
			r.Engagement,
			r.Context,
			r.Sentiment,
			strconv.Itoa(r.ProductivityScore),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses an export produced by Encode.
func Decode(data []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(Header)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", apperrors.ErrInvalidInput, err)
	}
	if len(records) == 0 || !slices.Equal(records[0], Header) {
		return nil, fmt.Errorf("%w: unexpected csv header", apperrors.ErrInvalidInput)
	}
	rows := make([]Row, 0, len(records)-1)
	for line, rec := range records[1:] {
		ts, err := parseTimestamp(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", apperrors.ErrInvalidInput, line+1, err)
		}
		score, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: productivity score: %v", apperrors.ErrInvalidInput, line+1, err)
		}
		rows = append(rows, Row{
			Timestamp:         ts,
			Emotion:           rec[1],
			Engagement:        rec[2],
			Context:           rec[3],
			Sentiment:         rec[4],
			ProductivityScore: score,
		})
	}
	return rows, nil
}

func formatTimestamp(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixMilli())/1000, 'f', 3, 64)
}

func parseTimestamp(raw string) (time.Time, error) {
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp: %w", err)
	}
	return time.UnixMilli(int64(math.Round(secs * 1000))).UTC(), nil
}
