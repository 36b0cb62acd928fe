package domain

// BlockDefinition is one row of the weekly time grid: a two-period teaching
// slot ("block pair") with its clock range. The catalog is static and loaded
// once; grid rows must always follow its order.
type BlockDefinition struct {
	Pair      string `json:"pair"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// GridVariant selects which day/block subset a grid uses.
type GridVariant int

const (
	// PersonalGrid is the five-day personal schedule grid.
	PersonalGrid GridVariant = iota
	// GymGrid is the six-day gym reservation grid.
	GymGrid
)

var blockCatalog = []BlockDefinition{
	{Pair: "1-2", StartTime: "08:15", EndTime: "09:25"},
	{Pair: "3-4", StartTime: "09:40", EndTime: "10:50"},
	{Pair: "5-6", StartTime: "11:05", EndTime: "12:15"},
	{Pair: "7-8", StartTime: "12:30", EndTime: "13:40"},
	{Pair: "9-10", StartTime: "14:40", EndTime: "15:50"},
	{Pair: "11-12", StartTime: "16:05", EndTime: "17:15"},
	{Pair: "13-14", StartTime: "17:30", EndTime: "18:40"},
	{Pair: "15-16", StartTime: "18:50", EndTime: "20:00"},
	{Pair: "17-18", StartTime: "20:10", EndTime: "21:20"},
}

// Blocks returns the ordered block definitions for the given grid variant.
// The gym closes after block 15-16, so its grid omits the last pair.
func Blocks(v GridVariant) []BlockDefinition {
	catalog := blockCatalog
	if v == GymGrid {
		catalog = blockCatalog[:len(blockCatalog)-1]
	}
	out := make([]BlockDefinition, len(catalog))
	copy(out, catalog)
	return out
}

// Days returns the ordered weekdays for the given grid variant.
func Days(v GridVariant) []Weekday {
	n := 5
	if v == GymGrid {
		n = 6
	}
	out := make([]Weekday, n)
	copy(out, weekdayOrder[:n])
	return out
}
