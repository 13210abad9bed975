package reaction

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Vector3 is a point or a direction in space, in metres or newtons.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vector3) Scale(f float64) Vector3 { return Vector3{v.X * f, v.Y * f, v.Z * f} }

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector3) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func (v Vector3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Unit returns v scaled to length one. The zero vector stays zero.
func (v Vector3) Unit() Vector3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// ParseVector3 reads "x,y,z".
func ParseVector3(s string) (Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Vector3{}, dynamo.Invalid("point %q must have three comma separated coordinates", s)
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Vector3{}, dynamo.Invalid("point %q: %v", s, err)
		}
		c[i] = f
	}
	return Vector3{c[0], c[1], c[2]}, nil
}

func (v Vector3) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

// MarshalJSON writes [x, y, z].
func (v Vector3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

// UnmarshalJSON accepts [x, y, z] or "x,y,z".
func (v *Vector3) UnmarshalJSON(data []byte) error {
	var arr [3]float64
	if err := json.Unmarshal(data, &arr); err == nil {
		*v = Vector3{arr[0], arr[1], arr[2]}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return dynamo.Invalid("point must be [x,y,z] or \"x,y,z\"")
	}
	parsed, err := ParseVector3(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// UnmarshalText lets yaml and flags use "x,y,z".
func (v *Vector3) UnmarshalText(text []byte) error {
	parsed, err := ParseVector3(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Vector3) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
