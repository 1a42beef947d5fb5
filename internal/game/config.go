package game

// Game configuration constants.
// All tunable simulation parameters are centralized here.

// Grid
const (
	GridWidth  = 20
	GridHeight = 20
	GridCells  = GridWidth * GridHeight
)

// Starting position of the single-segment snake (grid center).
const (
	OriginX = GridWidth / 2
	OriginY = GridHeight / 2
)

// Tick interval in milliseconds. Lower is faster.
const (
	InitialSpeed   = 150
	SpeedIncrement = 5
	MaxSpeed       = 80 // Floor for the tick interval
)

// foodSampleAttempts bounds rejection sampling before falling back to a free-cell scan.
const foodSampleAttempts = 4 * GridCells
