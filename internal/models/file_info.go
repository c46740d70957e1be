package models

import "time"

// FileInfo represents metadata about a written output file.
type FileInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	WrittenAt time.Time `json:"writtenAt"`
	Status    string    `json:"status"` // "written", "replaced"
}
