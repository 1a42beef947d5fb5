package stats

// Achievement is a one-time unlock kept in the lifetime record.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold,omitempty"` // Score to reach; zero for achievements not tied to score
}

// Achievement identifiers as stored in the record.
const (
	FirstFood = "first_food"
	Score10   = "score_10"
	Score25   = "score_25"
	Score50   = "score_50"
	NoPause   = "no_pause"
)

// Achievements lists every achievement in display order.
var Achievements = []Achievement{
	{ID: FirstFood, Name: "First Bite", Description: "Eat your first food", Threshold: 1},
	{ID: Score10, Name: "Getting Started", Description: "Reach score of 10", Threshold: 10},
	{ID: Score25, Name: "Snake Master", Description: "Reach score of 25", Threshold: 25},
	{ID: Score50, Name: "Legendary", Description: "Reach score of 50", Threshold: 50},
	{ID: NoPause, Name: "Focus Master", Description: "Complete a game without pausing"},
}

// Lookup finds an achievement by identifier.
func Lookup(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Crossed returns the score achievements whose threshold lies in (prev, score].
// Scores can jump by more than one point per food, so a threshold is matched when it
// is passed, not only when it is hit exactly.
func Crossed(prev, score int) []Achievement {
	var out []Achievement
	for _, a := range Achievements {
		if a.Threshold > 0 && prev < a.Threshold && score >= a.Threshold {
			out = append(out, a)
		}
	}
	return out
}
