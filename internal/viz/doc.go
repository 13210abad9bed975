// Package viz renders analysis output for the terminal.
//
// It has three parts:
//
//   - styles and themes shared by every command that prints a summary
//   - [Plot] and [PlotMany], ASCII charts of recorded channels
//   - [SweepProgress], a Bubble Tea model following a parameter sweep
//
// Themes are switched with [SetTheme]; the package level styles are
// rebuilt from the active theme.
package viz
