package validation

import "fmt"

// ParseWeighted interprets the yes/no flag that says whether an edge list
// carries a weight column. An empty value means "no".
func ParseWeighted(s string) (bool, error) {
	switch s {
	case "yes", "Yes", "Y", "y":
		return true, nil
	case "no", "No", "N", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: got %q", ErrInvalidWeighted, s)
	}
}

// WeightedString renders a weighted flag the way ParseWeighted accepts it.
func WeightedString(weighted bool) string {
	if weighted {
		return "yes"
	}
	return "no"
}
