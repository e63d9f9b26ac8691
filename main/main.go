package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/phil-mansfield/hailstone/crossing"
	"github.com/phil-mansfield/hailstone/geom"
	"github.com/phil-mansfield/hailstone/io"
	"github.com/phil-mansfield/hailstone/plot"
	"github.com/phil-mansfield/hailstone/rock"
)

const (
	// Test area used by -Solve.
	solveMin = 200000000000000
	solveMax = 400000000000000
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		crossingsStr, rockStr, solveStr string
		exampleConfig                   string
		threads                         int
	)
	vars := map[string]*string{
		"Crossings":     &crossingsStr,
		"Rock":          &rockStr,
		"Solve":         &solveStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.IntVar(
		&threads, "Threads", 0,
		"Number of threads used to count crossings. Overrides the value in "+
			"the configuration file.",
	)
	flag.StringVar(
		&crossingsStr, "Crossings", "",
		"Configuration file for [Crossings] mode.",
	)
	flag.StringVar(
		&rockStr, "Rock", "",
		"Configuration file for [Rock] mode.",
	)
	flag.StringVar(
		&solveStr, "Solve", "",
		"Input file. Counts crossings in the default test area and finds "+
			"the rock from the first three hailstones using default "+
			"settings. The rock is always printed: a warning is logged if "+
			"it misses a hailstone, while -Rock fails instead.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. Accepted arguments are 'Crossings' "+
			"and 'Rock'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Crossings":
		con, err := io.ReadCrossingsConfig(crossingsStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		if threads > 0 {
			con.Threads = threads
		}
		crossingsMain(con)

	case "Rock":
		con, err := io.ReadRockConfig(rockStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		rockMain(con)

	case "Solve":
		solveMain(solveStr, threads)

	case "ExampleConfig":
		switch exampleConfig {
		case "Crossings":
			fmt.Println(io.ExampleCrossingsFile)
		case "Rock":
			fmt.Println(io.ExampleRockFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Crossings' and 'Rock'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but hailstone "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// setupFiles opens the log and profile files requested by con and starts
// profiling.
func setupFiles(con *io.SharedConfig) *FileGroup {
	fg := &FileGroup{}

	if con.ValidLogFile() {
		f, err := os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(f)
		fg.log = f
	}

	if con.ValidProfileFile() {
		f, err := os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err.Error())
		}
		fg.prof = f
	}

	return fg
}

func crossingsMain(con *io.CrossingsConfig) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()
	logFlag := con.ValidLogFile()

	ps, err := io.ReadInput(con.Input, con.InputFormat)
	if err != nil {
		log.Fatal(err.Error())
	}
	if logFlag {
		log.Printf("Read %d hailstones from %s", len(ps), con.Input)
	}

	b := geom.Bound{Min: con.Min, Max: con.Max}
	man := crossing.NewManager(con.Threads)

	t0 := time.Now()
	var n int
	if con.ValidPlotFile() {
		pairs := man.Pairs(ps, b)
		n = len(pairs)
		plot.Crossings(ps, b, pairs, con.PlotFile)
		plot.Execute()
	} else {
		n = man.Count(ps, b)
	}

	if logFlag {
		log.Printf(
			"Counted crossings with %d workers in %.3g s",
			man.Workers(), time.Since(t0).Seconds(),
		)
	}
	fmt.Printf("crossings = %d\n", n)
}

func rockMain(con *io.RockConfig) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()
	logFlag := con.ValidLogFile()

	ps, err := io.ReadInput(con.Input, con.InputFormat)
	if err != nil {
		log.Fatal(err.Error())
	}
	if logFlag {
		log.Printf("Read %d hailstones from %s", len(ps), con.Input)
	}

	s := rock.NewSolver(con.Iterations)
	s.Tolerance = con.Tolerance
	s.Log = logFlag
	if len(con.Seed) > 0 {
		copy(s.Seed[:], con.Seed)
	}

	r, err := s.SolveAny(ps, con.Attempts)
	if err != nil {
		log.Fatal(err.Error())
	}
	if logFlag {
		log.Printf(
			"Rock %v @ %v after %d iterations, max residual = %.4g",
			r.Position(), r.Velocity(), r.Iterations, r.Residual,
		)
	}
	fmt.Printf("rock = %d\n", r.Sum())
}

func solveMain(fname string, threads int) {
	ps, err := io.ReadParticlesFile(fname)
	if err != nil {
		log.Fatal(err.Error())
	}

	b := geom.Bound{Min: solveMin, Max: solveMax}
	fmt.Printf("problem1 = %d\n", crossing.NewManager(threads).Count(ps, b))

	r, err := rock.NewSolver(rock.DefaultIterations).SolveRock(ps)
	if err != nil {
		log.Fatal(err.Error())
	}
	if i := rock.FirstMiss(r, ps); i >= 0 {
		log.Printf(
			"Warning: rock %v @ %v misses hailstone %d (%s), residual = %.4g",
			r.Position(), r.Velocity(), i, ps[i], r.Residual,
		)
	}
	fmt.Printf("problem2 = %d\n", r.Sum())
}
