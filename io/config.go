package io

import (
	"fmt"
	"runtime"

	"gopkg.in/gcfg.v1"
)

const (
	ExampleCrossingsFile = `[Crossings]

#######################
# Required Parameters #
#######################

# File containing the hailstones.
Input = path/to/input.txt

# Corners of the (inclusive) square test area. Only crossings with
# Min <= x <= Max and Min <= y <= Max are counted.
Min = 200000000000000
Max = 400000000000000

#######################
# Optional Parameters #
#######################

# Format of the input file. Text files contain one "x, y, z @ vx, vy, vz"
# record per line. Table files contain six whitespace separated columns. The
# default is Text.
# InputFormat = Text

# Number of threads used to count crossings. Default is the number of logical
# cores.
# Threads = 8

# If set, a matplotlib figure of the test area is written to this file.
# PlotFile = crossings.png

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

	ExampleRockFile = `[Rock]

#######################
# Required Parameters #
#######################

# File containing the hailstones. The first three are used to find the rock.
Input = path/to/input.txt

#######################
# Optional Parameters #
#######################

# InputFormat = Text

# Number of Newton-Raphson iterations. Default is 20.
# Iterations = 20

# If positive, iteration stops early once every residual is smaller than
# this. Default is 0, which always runs all iterations.
# Tolerance = 1e-6

# Number of consecutive hailstone triples to try. Attempts after the first
# are only used if earlier ones fail or do not hit every hailstone. The
# solver is approximate: if no attempt gives a rock which hits every
# hailstone the run fails, unlike -Solve, which prints the rock from the
# first triple with a warning. Default is 1.
# Attempts = 1

# Initial guess: x, y, z, vx, vy, vz, tA, tB, tC. Either all nine values
# must be given or none. Convergence depends on this being reasonable for
# the scale of the input.
# Seed = 0
# Seed = 0
# Seed = 0
# Seed = 1
# Seed = 1
# Seed = 1
# Seed = 1
# Seed = 2
# Seed = 3

# Writing a LogFile also logs the residual at every iteration.
# ProfileFile = prof.out
# LogFile = log.out`
)

// SharedConfig contains the variables used by every mode.
type SharedConfig struct {
	// Required
	Input string
	// Optional
	InputFormat, LogFile, ProfileFile string
}

func (con *SharedConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *SharedConfig) ValidInputFormat() bool {
	return con.InputFormat == TextFormat || con.InputFormat == TableFormat
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

func (con *SharedConfig) checkInit() error {
	if !con.ValidInput() {
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	} else if !con.ValidInputFormat() {
		return fmt.Errorf(
			"InputFormat must be one of [%s | %s], but is '%s'.",
			TextFormat, TableFormat, con.InputFormat,
		)
	}
	return nil
}

type CrossingsConfig struct {
	SharedConfig

	// Required
	Min, Max int64

	// Optional
	Threads  int
	PlotFile string
}

type CrossingsWrapper struct {
	Crossings CrossingsConfig
}

func DefaultCrossingsWrapper() *CrossingsWrapper {
	con := CrossingsConfig{}
	con.InputFormat = TextFormat
	con.Threads = runtime.NumCPU()
	return &CrossingsWrapper{con}
}

func (con *CrossingsConfig) ValidBounds() bool {
	return con.Min <= con.Max
}
func (con *CrossingsConfig) ValidThreads() bool {
	return con.Threads > 0
}
func (con *CrossingsConfig) ValidPlotFile() bool {
	return con.PlotFile != ""
}

// CheckInit returns a descriptive error if the configuration is unusable.
func (con *CrossingsConfig) CheckInit() error {
	if err := con.checkInit(); err != nil {
		return err
	}

	if !con.ValidBounds() {
		return fmt.Errorf(
			"Min must not be larger than Max, but Min = %d and Max = %d.",
			con.Min, con.Max,
		)
	} else if !con.ValidThreads() {
		return fmt.Errorf(
			"Threads must be positive, but is %d.", con.Threads,
		)
	}
	return nil
}

// ReadCrossingsConfig reads and checks a [Crossings] configuration file.
func ReadCrossingsConfig(fname string) (*CrossingsConfig, error) {
	wrap := DefaultCrossingsWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}

	con := &wrap.Crossings
	if err := con.CheckInit(); err != nil {
		return nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return con, nil
}

type RockConfig struct {
	SharedConfig

	// Optional
	Iterations, Attempts int
	Tolerance            float64
	Seed                 []float64
}

type RockWrapper struct {
	Rock RockConfig
}

func DefaultRockWrapper() *RockWrapper {
	con := RockConfig{}
	con.InputFormat = TextFormat
	con.Iterations = 20
	con.Attempts = 1
	return &RockWrapper{con}
}

func (con *RockConfig) ValidIterations() bool {
	return con.Iterations > 0
}
func (con *RockConfig) ValidAttempts() bool {
	return con.Attempts > 0
}
func (con *RockConfig) ValidTolerance() bool {
	return con.Tolerance >= 0
}
func (con *RockConfig) ValidSeed() bool {
	return len(con.Seed) == 0 || len(con.Seed) == 9
}

// CheckInit returns a descriptive error if the configuration is unusable.
func (con *RockConfig) CheckInit() error {
	if err := con.checkInit(); err != nil {
		return err
	}

	if !con.ValidIterations() {
		return fmt.Errorf(
			"Iterations must be positive, but is %d.", con.Iterations,
		)
	} else if !con.ValidAttempts() {
		return fmt.Errorf(
			"Attempts must be positive, but is %d.", con.Attempts,
		)
	} else if !con.ValidTolerance() {
		return fmt.Errorf(
			"Tolerance must not be negative, but is %g.", con.Tolerance,
		)
	} else if !con.ValidSeed() {
		return fmt.Errorf(
			"Seed must be given exactly 9 values, but was given %d.",
			len(con.Seed),
		)
	}
	return nil
}

// ReadRockConfig reads and checks a [Rock] configuration file.
func ReadRockConfig(fname string) (*RockConfig, error) {
	wrap := DefaultRockWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}

	con := &wrap.Rock
	if err := con.CheckInit(); err != nil {
		return nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return con, nil
}
