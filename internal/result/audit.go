package result

import (
	"os"
	"strings"
)

// Audit summarizes the health of a results file. Matching is id-based with
// first-match-wins semantics, so duplicate ids are worth surfacing to the
// operator even though they never break a running sweep.
type Audit struct {
	Rows         int
	Malformed    int
	DuplicateIDs []string
}

func AuditFile(path string) (*Audit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	audit := &Audit{}
	seen := map[string]bool{}
	dup := map[string]bool{}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, ok := parseLine(line)
		if !ok {
			audit.Malformed++
			continue
		}
		audit.Rows++
		id := row.TrialID()
		if seen[id] && !dup[id] {
			dup[id] = true
			audit.DuplicateIDs = append(audit.DuplicateIDs, id)
		}
		seen[id] = true
	}
	return audit, nil
}
