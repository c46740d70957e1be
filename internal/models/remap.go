package models

// RemapTables is the YAML document mapping legacy numeric indices to the
// web game's identifiers. Terrain mappings may be many-to-one.
type RemapTables struct {
	Terrain     map[int]int    `json:"terrain" yaml:"terrain"`
	Units       map[int]string `json:"units" yaml:"units"`
	Teams       map[int]Team   `json:"teams" yaml:"teams"`
	Defaults    RemapDefaults  `json:"defaults" yaml:"defaults"`
	Strongholds []Stronghold   `json:"strongholds" yaml:"strongholds"`
	LeaderUnits []string       `json:"leaderUnits" yaml:"leader_units"`
}

// RemapDefaults are substituted when a raw index has no table entry.
type RemapDefaults struct {
	Terrain int    `json:"terrain" yaml:"terrain"`
	Unit    string `json:"unit" yaml:"unit"`
	Team    Team   `json:"team" yaml:"team"`
}

// Stronghold marks a terrain id as an ownable building.
// LeaderOwned terrains take the team of a leader unit standing on them.
type Stronghold struct {
	Terrain     int    `json:"terrain" yaml:"terrain"`
	Type        string `json:"type" yaml:"type"`
	LeaderOwned bool   `json:"leaderOwned" yaml:"leader_owned"`
}
