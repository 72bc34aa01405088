package domain

// AgeGroup is a customer age segment label.
type AgeGroup string

const (
	AgeGroupUnder18 AgeGroup = "Under 18"
	AgeGroup18To25  AgeGroup = "18-25"
	AgeGroup26To35  AgeGroup = "26-35"
	AgeGroup36To50  AgeGroup = "36-50"
	AgeGroupOver50  AgeGroup = "Over 50"
)

// AgeGroups lists the segments in ascending age order.
var AgeGroups = []AgeGroup{
	AgeGroupUnder18,
	AgeGroup18To25,
	AgeGroup26To35,
	AgeGroup36To50,
	AgeGroupOver50,
}

// AgeGroupFor assigns an age to its segment. The partition is total and
// non-overlapping for any non-negative age: [0,18) [18,25] [26,35] [36,50]
// and everything above 50.
func AgeGroupFor(age int) AgeGroup {
	switch {
	case age < 18:
		return AgeGroupUnder18
	case age <= 25:
		return AgeGroup18To25
	case age <= 35:
		return AgeGroup26To35
	case age <= 50:
		return AgeGroup36To50
	default:
		return AgeGroupOver50
	}
}

// String implements fmt.Stringer.
func (g AgeGroup) String() string {
	return string(g)
}
