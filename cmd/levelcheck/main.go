// levelcheck validates the embedded level table: descriptor consistency
// plus a reachability check of every object and target against the arm's
// reach envelope.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/redjul/armsim/config"
	"github.com/redjul/armsim/level"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	reach := config.Cfg().Derived.Reach

	descriptors, err := level.LoadTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading levels: %v\n", err)
		os.Exit(1)
	}

	problems := 0
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			fmt.Printf("level %2d  INVALID: %v\n", d.ID, err)
			problems++
			continue
		}

		var issues []string
		for i, o := range d.Objects {
			if dist := horizontal(o.Position); dist > reach {
				issues = append(issues, fmt.Sprintf("object %d out of reach (%.2f > %.2f)", i, dist, reach))
			}
		}
		for i, t := range d.Targets {
			if dist := horizontal(t.Position); dist > reach {
				issues = append(issues, fmt.Sprintf("target %d out of reach (%.2f > %.2f)", i, dist, reach))
			}
		}

		if len(issues) == 0 {
			fmt.Printf("level %2d  ok    %-18s objects=%d targets=%d\n",
				d.ID, d.Name, len(d.Objects), len(d.Targets))
		} else {
			for _, issue := range issues {
				fmt.Printf("level %2d  WARN  %s\n", d.ID, issue)
			}
			problems++
		}
	}

	if problems > 0 {
		os.Exit(1)
	}
}

func horizontal(p [3]float64) float64 {
	return math.Hypot(p[0], p[2])
}
