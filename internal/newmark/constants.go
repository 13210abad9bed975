package newmark

// Average acceleration parameters, unconditionally stable.
const (
	DefaultBeta  = 0.25
	DefaultGamma = 0.5
)

// Constants are the Newmark integration constants for one time step size.
type Constants struct {
	A0, A1, A2, A3, A4, A5, A6, A7 float64
}

func NewConstants(beta, gamma, dt float64) Constants {
	return Constants{
		A0: 1 / (beta * dt * dt),
		A1: gamma / (beta * dt),
		A2: 1 / (beta * dt),
		A3: 1/(2*beta) - 1,
		A4: gamma/beta - 1,
		A5: dt / 2 * (gamma/beta - 2),
		A6: dt * (1 - gamma),
		A7: gamma * dt,
	}
}
