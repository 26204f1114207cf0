package trust

type Level string

const (
	LevelExcellent        Level = "Excellent"
	LevelVeryGood         Level = "Very Good"
	LevelGood             Level = "Good"
	LevelFair             Level = "Fair"
	LevelNeedsImprovement Level = "Needs Improvement"
)

type LevelInfo struct {
	Level       Level
	Description string
	Benefits    string
}

// Banding is fixed, not computed: each band maps to an enumerable set of
// committee-access benefits.
var levelTable = []struct {
	min  int
	info LevelInfo
}{
	{95, LevelInfo{
		Level:       LevelExcellent,
		Description: "Outstanding payment history and committee participation",
		Benefits:    "Access to premium committees, lower fees, priority support",
	}},
	{85, LevelInfo{
		Level:       LevelVeryGood,
		Description: "Reliable member with consistent payments",
		Benefits:    "Access to most committees, good rates",
	}},
	{75, LevelInfo{
		Level:       LevelGood,
		Description: "Generally reliable with occasional delays",
		Benefits:    "Access to standard committees",
	}},
	{60, LevelInfo{
		Level:       LevelFair,
		Description: "Some payment issues, room for improvement",
		Benefits:    "Limited committee access, higher fees",
	}},
	{0, LevelInfo{
		Level:       LevelNeedsImprovement,
		Description: "Significant payment issues requiring attention",
		Benefits:    "Restricted access, mandatory monitoring",
	}},
}

func LevelFor(score int) LevelInfo {
	for _, band := range levelTable {
		if score >= band.min {
			return band.info
		}
	}
	return levelTable[len(levelTable)-1].info
}

// Recommendations returns threshold-gated guidance for raising a score.
func Recommendations(score int) []string {
	var recs []string
	if score < 85 {
		recs = append(recs, "Make all payments on time to improve payment consistency")
	}
	if score < 75 {
		recs = append(recs,
			"Complete current committee commitments to boost completion rate",
			"Consider joining smaller committees to build trust gradually")
	}
	if score < 60 {
		recs = append(recs,
			"Focus on resolving any outstanding payment issues",
			"Communicate with committee admins about any payment difficulties")
	}
	if score >= 85 {
		recs = append(recs, "Maintain your excellent payment record")
	}
	return recs
}
