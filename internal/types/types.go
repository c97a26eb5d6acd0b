package types

import "time"

// Exchange describes one completed HTTP round trip made by the client
type Exchange struct {
	RequestID    string        `json:"requestId" yaml:"requestId"`
	Method       string        `json:"method" yaml:"method"`
	URL          string        `json:"url" yaml:"url"`
	Endpoint     string        `json:"endpoint" yaml:"endpoint"`
	Status       int           `json:"status" yaml:"status"` // 0 when no response was received
	Duration     time.Duration `json:"duration" yaml:"duration"`
	RequestSize  int64         `json:"requestSize" yaml:"requestSize"`
	ResponseSize int64         `json:"responseSize" yaml:"responseSize"`
	Error        string        `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp    time.Time     `json:"timestamp" yaml:"timestamp"`
}

// HistoryEntry is a persisted exchange
type HistoryEntry struct {
	ID           string `json:"id" yaml:"id"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	Method       string `json:"method" yaml:"method"`
	URL          string `json:"url" yaml:"url"`
	Endpoint     string `json:"endpoint" yaml:"endpoint"`
	Status       int    `json:"status" yaml:"status"`
	DurationMs   int64  `json:"durationMs" yaml:"durationMs"`
	RequestID    string `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	RequestSize  int64  `json:"requestSize,omitempty" yaml:"requestSize,omitempty"`
	ResponseSize int64  `json:"responseSize,omitempty" yaml:"responseSize,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}
