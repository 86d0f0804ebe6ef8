// Command checkconfig validates a survey configuration file and prints a
// summary of its questions and segmentation rules.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/GauravB09/Diligence-Squared-Assignment/config"
)

func main() {
	path := flag.String("config", "config/survey.json", "path to survey config file")
	flag.Parse()

	cfg, err := config.LoadSurveyConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("config OK: %s\n\n", *path)

	keys := make([]string, 0, len(cfg.Questions))
	for k := range cfg.Questions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("questions (%d):\n", len(keys))
	for _, k := range keys {
		q := cfg.Questions[k]
		fmt.Printf("  %-12s %-8s matches %q\n", k, q.Type, q.PartialTitle)
	}

	fmt.Printf("\nrules (%d):\n", len(cfg.Segmentation.Rules))
	for i, rule := range cfg.Segmentation.Rules {
		fmt.Printf("  %d. segment=%q status=%q conditions=%d\n",
			i+1, rule.Segment, rule.Status, len(rule.Conditions))
	}
	fmt.Printf("\ndefault: segment=%q status=%q\n",
		cfg.Segmentation.DefaultSegment, cfg.Segmentation.DefaultStatus)
}
