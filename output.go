package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// countWidth is the number of decimal digits in the largest successful count, at least 1.
func countWidth(outcomes []Outcome) int {
	maxCount := 0
	for _, o := range outcomes {
		if o.Counted() && o.Tokens > maxCount {
			maxCount = o.Tokens
		}
	}
	return len(strconv.Itoa(maxCount))
}

// printReport renders every outcome, in order, plus a total line when more than one argument
// was given. Counts are right-aligned to a width shared by the whole run. Failures print their
// diagnostic unaligned: "Is a directory" on stdout, everything else on stderr.
func printReport(result *RunResult, stdout, stderr io.Writer) {
	width := countWidth(result.Outcomes)

	for _, o := range result.Outcomes {
		if o.Err != nil {
			var dirErr *IsADirectoryError
			if errors.As(o.Err, &dirErr) {
				fmt.Fprintln(stdout, o.Err)
			} else {
				fmt.Fprintln(stderr, o.Err)
			}
			continue
		}
		if o.HasLabel {
			fmt.Fprintf(stdout, "%*d %s\n", width, o.Tokens, o.Label)
		} else {
			fmt.Fprintf(stdout, "%*d\n", width, o.Tokens)
		}
	}

	if result.Args > 1 {
		fmt.Fprintf(stdout, "%*d total\n", width, result.TotalTokens)
	}
}

// printDiagnostics writes resolution-time errors, one per line.
func printDiagnostics(diags []error, stderr io.Writer) {
	for _, err := range diags {
		fmt.Fprintln(stderr, err)
	}
}
