package types

import "encoding/base64"

// Media is a byte stream with a declared media type.
type Media struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Base64 returns the standard base64 encoding of the data, without a data-URI prefix.
func (m Media) Base64() string {
	return base64.StdEncoding.EncodeToString(m.Data)
}

// DataURI returns the data as an inline data URI.
func (m Media) DataURI() string {
	mime := m.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + m.Base64()
}

type RawInputs struct {
	Transcript  string
	Video       *Media
	Screenshots []Media
}

type VideoAnalysis struct {
	Transcript       string    `json:"transcript"`
	TitleTimestamp   float64   `json:"titleTimestamp"`
	InlineTimestamps []float64 `json:"inlineTimestamps"`
}

// Timestamps returns the title timestamp followed by the inline ones.
func (a VideoAnalysis) Timestamps() []float64 {
	out := make([]float64, 0, 1+len(a.InlineTimestamps))
	out = append(out, a.TitleTimestamp)
	return append(out, a.InlineTimestamps...)
}

// ReviewBundle is what the user sees and edits between preparation and final generation.
type ReviewBundle struct {
	Transcript            string
	TitleImage            *Media
	InlineImages          []Media
	TranscriptAIProcessed bool
}

// Images returns the title image (if any) followed by the inline images.
func (b ReviewBundle) Images() []Media {
	out := make([]Media, 0, len(b.InlineImages)+1)
	if b.TitleImage != nil {
		out = append(out, *b.TitleImage)
	}
	return append(out, b.InlineImages...)
}

type Document struct {
	HTML string
}
