// Command catalog_check validates scraped timetable files before they are
// dropped into a deployment's data directories. It runs the same loader the
// server uses and reports parse coverage per term, so scraper regressions
// show up here instead of as silently unschedulable courses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/oumizumi/kairo-api/internal/catalog"
	"github.com/oumizumi/kairo-api/internal/models"
)

type termReport struct {
	term        models.Term
	courses     int
	sections    int
	withPattern int
	open        int
	byType      map[models.SectionType]int
}

func main() {
	dirs := flag.String("dirs", "./data", "comma separated data directories")
	termFlag := flag.String("term", "", "single term to check; empty checks all")
	strict := flag.Bool("strict", false, "exit non-zero when a term has no usable sections")
	flag.Parse()

	loader := catalog.NewLoader(splitDirs(*dirs), nil)

	terms := models.AllTerms()
	if *termFlag != "" {
		terms = []models.Term{models.NormalizeTerm(*termFlag)}
	}

	failed := false
	for _, term := range terms {
		report := check(loader, term)
		print(report)
		if report.withPattern == 0 {
			failed = true
		}
	}

	if failed && *strict {
		log.Println("one or more terms have no schedulable sections")
		os.Exit(1)
	}
}

func check(loader *catalog.Loader, term models.Term) termReport {
	report := termReport{term: term, byType: map[models.SectionType]int{}}
	loaded := loader.Load(context.Background(), term)

	report.courses = len(loaded)
	for _, sections := range loaded {
		for i := range sections {
			section := &sections[i]
			report.sections++
			report.byType[section.Type]++
			if section.HasMeetingPattern() {
				report.withPattern++
			}
			if section.IsOpen {
				report.open++
			}
		}
	}
	return report
}

func print(report termReport) {
	fmt.Printf("%s: %d courses, %d sections (%d with parsed meeting times, %d open)\n",
		report.term, report.courses, report.sections, report.withPattern, report.open)

	types := make([]models.SectionType, 0, len(report.byType))
	for kind := range report.byType {
		types = append(types, kind)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, kind := range types {
		fmt.Printf("  %s: %d\n", kind, report.byType[kind])
	}
}

func splitDirs(raw string) []string {
	parts := strings.Split(raw, ",")
	dirs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			dirs = append(dirs, trimmed)
		}
	}
	return dirs
}
