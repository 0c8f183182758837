/*
Copyright © 2024 Jonathan Taylor <jonrtaylor12@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jt05610/unfold"
	"github.com/jt05610/unfold/env"
	"github.com/jt05610/unfold/petri"
	"github.com/jt05610/unfold/petrifile"
)

var (
	inputFile string
	outputDir string
	maxEvents int
	maxBound  int
	safe      bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "unfold",
	Short: "Compute complete finite prefix unfoldings of petri nets",
	Long: `unfold builds the complete finite prefix of a net system's unfolding
and exposes it for rendering and analysis. The input file must be a petri
file.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "input file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", ".", "output directory")
	rootCmd.PersistentFlags().IntVar(&maxEvents, "max-events", 0, "cap on events in the prefix")
	rootCmd.PersistentFlags().IntVar(&maxBound, "max-bound", 0, "per-place bound inside any cut")
	rootCmd.PersistentFlags().BoolVar(&safe, "safe", false, "use the optimization for safe nets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func logger() *zap.Logger {
	var l *zap.Logger
	var err error
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l
}

func loadSystem() *petri.System {
	if inputFile == "" {
		panic(errors.New("no input file"))
	}
	df, err := os.Open(inputFile)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = df.Close()
	}()
	sys, err := petrifile.Load(df)
	if err != nil {
		panic(err)
	}
	return sys
}

func setup(log *zap.Logger) *unfold.Setup {
	e := env.Load(log)
	s := unfold.DefaultSetup()
	s.Logger = log
	s.SafeOptimization = safe || e.Safe
	if e.MaxEvents > 0 {
		s.MaxEvents = e.MaxEvents
	}
	if maxEvents > 0 {
		s.MaxEvents = maxEvents
	}
	if e.MaxBound > 0 {
		s.MaxBound = e.MaxBound
	}
	if maxBound > 0 {
		s.MaxBound = maxBound
	}
	return s
}

// build unfolds the input net. A bound violation still yields a usable
// prefix, so it is reported and not fatal. forceGeneral selects the
// cut-tracking construction regardless of the safe flag.
func build(log *zap.Logger, forceGeneral bool) *unfold.Unfolding {
	sys := loadSystem()
	s := setup(log)
	if forceGeneral {
		s.SafeOptimization = false
	}
	u, err := unfold.New(sys, s)
	if err != nil {
		if !errors.Is(err, unfold.ErrBoundExceeded) {
			panic(err)
		}
		log.Warn("construction stopped early", zap.Error(err))
	}
	if u.LimitReached() {
		log.Warn("event cap reached", zap.Int("events", len(u.Events())))
	}
	return u
}
