// Package config gathers every tunable constant the simulation core needs
// into a single injected value, instead of process-wide constants, so
// tests can vary parameters freely (spec.md §9's design note).
package config

// Config holds every constant spec.md §6 lists as required.
type Config struct {
	FieldSizeX float64
	FieldSizeY float64

	FieldStaticFood int

	SnakeDistancePerStep     float64
	SnakeBoostSpeedup        float64
	SnakeFrictionFactor      float64
	SnakeSpringConstant      float64
	SnakeBaseDistance        float64
	SnakeLengthExponent      float64
	SnakeConsumeRange        float64
	SnakeBoostLossFactor     float64
	SnakeSelfKillMassThresh  float64
	KillerMinMassRatio       float64

	FoodSizeMean   float64
	FoodSizeStddev float64
	FoodDecayStep  float64

	SpatialMapTilesX     int
	SpatialMapTilesY     int
	SpatialMapReserve    int

	// BotWorkerCount sizes the BotThreadPool. Not named in spec.md §6 (it is
	// a deployment knob, not a simulation constant) but needed to construct
	// a Field; defaults to a small fixed pool.
	BotWorkerCount int

	// LogCreditRefill and LogCreditCap bound a bot's per-frame log budget
	// (spec.md §4.4). Not named explicitly in spec.md §6 but required by
	// the Bot invariant it describes.
	LogCreditRefill int
	LogCreditCap    int

	// BotInitialMass is the mass a newly spawned bot's snake starts with.
	// The reference source's Bot constructor is not part of the retained
	// original sources, so this is chosen rather than ported.
	BotInitialMass float64
}

// Default returns the constants used by the original reference simulation,
// ported from original_source/src/config.h.
func Default() Config {
	return Config{
		FieldSizeX: 1024,
		FieldSizeY: 1024,

		FieldStaticFood: 5000,

		SnakeDistancePerStep:    1.0,
		SnakeBoostSpeedup:       3.0,
		SnakeFrictionFactor:     0.95,
		SnakeSpringConstant:     0.5,
		SnakeBaseDistance:       0.0,
		SnakeLengthExponent:     0.8,
		SnakeConsumeRange:       1.0,
		SnakeBoostLossFactor:    0.5,
		SnakeSelfKillMassThresh: 1.0,
		KillerMinMassRatio:      2.0,

		FoodSizeMean:   3.5,
		FoodSizeStddev: 2.0,
		FoodDecayStep:  0.010,

		SpatialMapTilesX:  32,
		SpatialMapTilesY:  32,
		SpatialMapReserve: 32,

		BotWorkerCount: 4,

		LogCreditRefill: 1,
		LogCreditCap:    10,

		BotInitialMass: 10.0,
	}
}
