package result

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Row is one parsed results line: trial id first, then the experiment's
// outputs in whatever order the job wrote them.
type Row []string

func (r Row) TrialID() string { return r[0] }

// Outputs returns the fields after the trial id.
func (r Row) Outputs() []string { return r[1:] }

// Float coerces output field i (0 = first field after the id). Row width is
// whatever the job wrote, so a missing field is an error, not a panic.
func (r Row) Float(i int) (float64, error) {
	outputs := r.Outputs()
	if i < 0 || i >= len(outputs) {
		return 0, fmt.Errorf("output field %d out of range (row has %d outputs)", i, len(outputs))
	}
	return strconv.ParseFloat(outputs[i], 64)
}

// parseLine splits one results line. A line with no id field or no outputs
// is malformed and reported as not-ok; scanning skips it.
func parseLine(line string) (Row, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	if fields[0] == "" || len(fields) < 2 {
		return nil, false
	}
	return Row(fields), true
}

// Scan re-reads the whole results file and returns the first row whose trial
// id matches. The file is appended concurrently by other trials' jobs and
// completion order is unrelated to submission order, so every scan starts
// from the top. A missing file just means no job has finished yet.
func Scan(path, trialID string) (Row, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		row, ok := parseLine(line)
		if !ok {
			continue
		}
		if row.TrialID() == trialID {
			return row, true, nil
		}
	}
	return nil, false, nil
}
