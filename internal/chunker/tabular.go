package chunker

import "strings"

// Tabular documents carry exactly three semantic columns: service, price,
// notes. Extra columns are ignored; missing columns yield shorter sentences.
const tabularColumns = 3

var columnLabels = [tabularColumns]string{"Service", "Price", "Notes"}

// tabularPassages synthesizes one sentence-like passage per table row.
// Blank lines and "#" comment lines are dropped (comment detection runs on
// the trimmed line, so indented comments count); only lines containing a
// pipe are treated as rows. A row with every field empty still emits an
// empty passage so that later rows keep their sequence numbers.
func tabularPassages(body []string) []string {
	var passages []string
	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !strings.Contains(trimmed, "|") {
			continue
		}
		passages = append(passages, synthesizeRow(trimmed))
	}
	return passages
}

// synthesizeRow turns "Oil change|$40|synthetic" into
// "Service: Oil change. Price: $40. Notes: synthetic.". Empty fields are
// skipped; a row with all fields empty yields "".
func synthesizeRow(line string) string {
	fields := strings.Split(line, "|")
	parts := make([]string, 0, tabularColumns)
	for i := 0; i < tabularColumns && i < len(fields); i++ {
		value := strings.TrimSpace(fields[i])
		if value == "" {
			continue
		}
		parts = append(parts, columnLabels[i]+": "+value+".")
	}
	return strings.Join(parts, " ")
}
