package models

// Team is one of the four legacy factions. The numeric order matches the
// team index stored in map files.
type Team string

const (
	TeamBlue  Team = "blue"
	TeamRed   Team = "red"
	TeamGreen Team = "green"
	TeamBlack Team = "black"
)

// TeamCount is the number of team-access flags stored in a map header.
const TeamCount = 4

// Teams lists the factions in file order.
var Teams = [TeamCount]Team{TeamBlue, TeamRed, TeamGreen, TeamBlack}

// MapFile is the decoded content of one .aem map file.
// It is produced once by the decoder and not modified afterwards.
type MapFile struct {
	Author     string
	TeamAccess [TeamCount]bool
	Width      int
	Height     int
	// Tiles is row-major: Tiles[y][x]. The file stores columns first.
	Tiles      [][]int16
	Units      []UnitPlacement
}

// UnitPlacement is one unit record, kept exactly as stored.
type UnitPlacement struct {
	Team int
	Type int
	X    int
	Y    int
}

// InBounds reports whether (x, y) lies inside the tile grid.
func (m *MapFile) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}
