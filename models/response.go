package models

import "time"

// ResponseTimeLayout is the display format of Response.Timestamp.
const ResponseTimeLayout = "15:04:05"

// Response is a participant answer to one question.
//
// ID is the creation time in unix milliseconds and doubles as the key of the
// response inside its collection.
type Response struct {
	ID        int64  `json:"id"`
	Answer    string `json:"answer"`
	Likes     int    `json:"likes"`
	Checked   bool   `json:"checked"`
	Timestamp string `json:"timestamp"`
}

// NewResponse builds a fresh, unliked and unchecked response created at now.
func NewResponse(answer string, now time.Time) Response {
	return Response{
		ID:        now.UnixMilli(),
		Answer:    answer,
		Likes:     0,
		Checked:   false,
		Timestamp: now.Format(ResponseTimeLayout),
	}
}
