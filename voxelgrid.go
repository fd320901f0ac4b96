package reservoir

import (
	"sort"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

type voxel struct {
	sum   float64
	num   int
	index int
}

// Deduplicate collapses control points sharing the same (X, Y) into one
// point at the mean depth. The result is ordered by Y, then X.
func Deduplicate(pc []ControlPoint) []ControlPoint {
	voxels := make(map[vec2d.T]*voxel, len(pc))
	for i := range pc {
		key := pc[i].XY()
		v, ok := voxels[key]
		if !ok {
			v = &voxel{index: i}
			voxels[key] = v
		}
		v.num++
		v.sum += pc[i].Z
	}

	newPc := make(Coordinates, 0, len(voxels))
	for key, v := range voxels {
		if v.num > 1 {
			newPc = append(newPc, ControlPoint{key[0], key[1], v.sum / float64(v.num)})
		} else {
			newPc = append(newPc, pc[v.index])
		}
	}
	sort.Sort(newPc)
	return newPc
}

// Coordinates sorts control points by Y, then X.
type Coordinates []ControlPoint

func (s Coordinates) Len() int {
	return len(s)
}

func (s Coordinates) Less(i, j int) bool {
	if s[i].Y == s[j].Y {
		return s[i].X < s[j].X
	}
	return s[i].Y < s[j].Y
}

func (s Coordinates) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func minMaxPoints(ra []ControlPoint) (min, max ControlPoint, err error) {
	if len(ra) == 0 {
		return min, max, &InsufficientDataError{Op: "extent", Need: 1}
	}
	min, max = ra[0], ra[0]
	for _, v := range ra[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Z < min.Z {
			min.Z = v.Z
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
		if v.Z > max.Z {
			max.Z = v.Z
		}
	}
	return min, max, nil
}
