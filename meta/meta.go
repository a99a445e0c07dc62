// meta/meta.go
package meta

// DEFAULT_SEED seeds the dice when no seed is given.
const DEFAULT_SEED uint64 = 1

// MAX_TURNS caps a scripted game that never runs out of orders.
const MAX_TURNS = 300

// OUTPUT_DIR is where experiment records are written.
const OUTPUT_DIR = "experiments"
