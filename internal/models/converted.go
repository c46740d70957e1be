package models

// ConvertedMap is the web game's map record written for every .aem file.
type ConvertedMap struct {
	Name       string     `json:"name" msgpack:"name"`
	Author     string     `json:"author" msgpack:"author"`
	TeamAccess []bool     `json:"teamAccess" msgpack:"teamAccess"`
	Width      int        `json:"width" msgpack:"width"`
	Height     int        `json:"height" msgpack:"height"`
	MapData    [][]int    `json:"mapData" msgpack:"mapData"` // terrain ids, [y][x]
	Units      []MapUnit  `json:"units" msgpack:"units"`
	Buildings  []Building `json:"buildings" msgpack:"buildings"`
}

// MapUnit is a unit placement after remapping.
type MapUnit struct {
	Type string `json:"type" msgpack:"type"`
	Team Team   `json:"team" msgpack:"team"`
	X    int    `json:"x" msgpack:"x"`
	Y    int    `json:"y" msgpack:"y"`
}

// Building is an ownable stronghold cell.
// Team is nil for neutral buildings; ownership is inferred, never stored
// in the source format.
type Building struct {
	Type string `json:"type" msgpack:"type"`
	Team *Team  `json:"team" msgpack:"team"`
	X    int    `json:"x" msgpack:"x"`
	Y    int    `json:"y" msgpack:"y"`
}
