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
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"

	"github.com/jt05610/unfold/analysis"
	"github.com/jt05610/unfold/petri"
)

var (
	exact        bool
	exploreLimit int
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [predicate]",
	Short: "Check whether any reachable marking satisfies a predicate",
	Long: `Check evaluates a boolean expression over place token counts against
every cut of the net's prefix unfolding, e.g.

    unfold check -i net.yaml 'buffer >= 2 && done == 0'

Each cut of the prefix stands for a reachable marking of the net, so a
satisfied predicate names a reachable state. With --exact the marking graph
is explored directly (bounded by --limit) instead of consulting the prefix.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		program, err := expr.Compile(args[0], expr.AsBool())
		if err != nil {
			panic(err)
		}
		var witness petri.Marking
		if exact {
			sys := loadSystem()
			witness = satisfying(sys.Places(), analysis.Explore(sys, exploreLimit), program)
		} else {
			// cut enumeration needs the general construction
			u := build(logger(), true)
			markings := make([]petri.Marking, 0, len(u.Cuts()))
			for _, cut := range u.Cuts() {
				markings = append(markings, cut.Marking())
			}
			witness = satisfying(u.System().Places(), markings, program)
		}
		if witness == nil {
			fmt.Println("unsatisfied")
			os.Exit(1)
		}
		fmt.Printf("satisfied by %s\n", witness)
	},
}

// satisfying returns a marking satisfying the compiled predicate, or nil.
func satisfying(places []*petri.Place, markings []petri.Marking, program *vm.Program) petri.Marking {
	for _, m := range markings {
		scope := make(map[string]interface{}, len(places))
		for _, p := range places {
			scope[p.Name] = m.Get(p)
		}
		out, err := expr.Run(program, scope)
		if err != nil {
			continue
		}
		if ok, _ := out.(bool); ok {
			return m
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&exact, "exact", false, "explore the marking graph instead of the prefix")
	checkCmd.Flags().IntVar(&exploreLimit, "limit", 10000, "marking cap for --exact exploration")
}
