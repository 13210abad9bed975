// Package analysis runs the structural analyses end to end: static
// equilibrium and component checks of a suspension corner, fatigue life
// from a load cycle, time responses of vehicle models, the frequency sweep
// of a finite element beam and parameter sweeps over vehicle models.
//
// Results are raw SI values. Rounding, when requested, is applied to the
// reported results only, never to values fed back into a computation.
//
// Independent work runs concurrently through errgroup: the four suspension
// components of a static analysis, the maximum and minimum load cases of a
// fatigue analysis, and the items of a sweep (bounded by a worker limit).
// Time steps within one integration are strictly sequential.
package analysis
