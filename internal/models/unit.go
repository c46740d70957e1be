package models

// UnitBundle is the units.json document: the unit config plus every
// unit definition with its index filled in.
type UnitBundle struct {
	Config map[string]any   `json:"config" msgpack:"config"`
	Units  []map[string]any `json:"units" msgpack:"units"`
}
