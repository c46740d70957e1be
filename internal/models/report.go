package models

import "time"

// FileStatus is the outcome of converting a single input file.
type FileStatus string

const (
	FileStatusConverted FileStatus = "converted"
	FileStatusError     FileStatus = "error"
	FileStatusSkipped   FileStatus = "skipped"
)

// FileResult records what happened to one input file of a batch.
type FileResult struct {
	Input    string     `json:"input" msgpack:"input"`
	Output   string     `json:"output,omitempty" msgpack:"output,omitempty"`
	Status   FileStatus `json:"status" msgpack:"status"`
	Error    string     `json:"error,omitempty" msgpack:"error,omitempty"`
	Warnings []Warning  `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
}

// BatchReport summarises a batch run.
// Unknown* maps count how often each raw index fell back to a default.
type BatchReport struct {
	ID             string       `json:"id" msgpack:"id"`
	StartedAt      time.Time    `json:"startedAt" msgpack:"startedAt"`
	FinishedAt     time.Time    `json:"finishedAt" msgpack:"finishedAt"`
	Converted      int          `json:"converted" msgpack:"converted"`
	Failed         int          `json:"failed" msgpack:"failed"`
	Files          []FileResult `json:"files" msgpack:"files"`
	UnknownTerrain map[int]int  `json:"unknownTerrain,omitempty" msgpack:"unknownTerrain,omitempty"`
	UnknownUnits   map[int]int  `json:"unknownUnits,omitempty" msgpack:"unknownUnits,omitempty"`
	UnknownTeams   map[int]int  `json:"unknownTeams,omitempty" msgpack:"unknownTeams,omitempty"`
	MapList        []string     `json:"mapList" msgpack:"mapList"`
}
