package bolt

import "github.com/lixenwraith/cardfx/vmath"

// GeneratePath returns segments+1 points from start to end with interior points jittered per axis
// Endpoints are exact; segments below one are treated as one
func GeneratePath(start, end vmath.Point, segments int, jitter float64, rng *vmath.Rand) []vmath.Point {
	segments = max(segments, 1)
	pts := make([]vmath.Point, segments+1)
	pts[0] = start
	pts[segments] = end
	for i := 1; i < segments; i++ {
		base := vmath.LerpPoint(start, end, float64(i)/float64(segments))
		pts[i] = vmath.Pt(base.X+rng.Symmetric(jitter), base.Y+rng.Symmetric(jitter))
	}
	return pts
}

// Branch is a sub-path forking off the main path at an interior index
type Branch struct {
	Anchor int
	Points []vmath.Point
}

// GenerateBranches forks count sub-paths off path at random interior points
// length is the branch length as a fraction of the parent path length
// Paths with fewer than three points cannot fork and yield no branches
func GenerateBranches(path []vmath.Point, count, segments int, length, jitter float64, rng *vmath.Rand) []Branch {
	if len(path) < 3 || count <= 0 {
		return nil
	}
	reach := length * vmath.PathLength(path)
	branches := make([]Branch, count)
	for i := range branches {
		anchor := rng.IntRange(1, len(path)-2)
		origin := path[anchor]
		end := origin.Add(vmath.FromAngle(rng.Angle(), reach))
		branches[i] = Branch{
			Anchor: anchor,
			Points: GeneratePath(origin, end, segments, jitter, rng),
		}
	}
	return branches
}
