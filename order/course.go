package order

import "strconv"

// Course selects one of the three slots of an order.
type Course int

const (
	Entree Course = iota
	Side
	Accompaniment

	numCourses
)

// Courses lists every course in display order.
var Courses = [...]Course{Entree, Side, Accompaniment}

func (c Course) valid() bool { return c >= 0 && c < numCourses }

// String returns the lower-case course name.
func (c Course) String() string {
	switch c {
	case Entree:
		return "entree"
	case Side:
		return "side"
	case Accompaniment:
		return "accompaniment"
	default:
		return "course(" + strconv.Itoa(int(c)) + ")"
	}
}

// ParseCourse is the inverse of String.
func ParseCourse(s string) (Course, bool) {
	for _, c := range Courses {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}
