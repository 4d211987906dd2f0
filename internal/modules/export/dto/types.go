package dto

import "time"

type Row struct {
	Timestamp         time.Time
	Emotion           string
	Engagement        string
	Context           string
	Sentiment         string
	ProductivityScore int
}

type ExportOutput struct {
	Path string
	Rows int
}
