package dynamo

import "math"

// Gravity is the standard acceleration of gravity in m/s².
const Gravity = 9.80665

func RPMToRadPerSecond(rpm float64) float64 {
	return rpm * 2 * math.Pi / 60
}

func KmhToMetersPerSecond(kmh float64) float64 {
	return kmh / 3.6
}

func HertzToRadPerSecond(hz float64) float64 {
	return hz * 2 * math.Pi
}
