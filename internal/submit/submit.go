package submit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Request describes one job submission. The external job is always invoked
// with positional arguments [script, results_path, trial_id, args...]; the
// job itself is responsible for appending its result line to ResultsPath
// with TrialID as the first field.
type Request struct {
	Script      string
	ResultsPath string
	TrialID     string
	Args        []string
}

// Submitter launches an external job. Submit blocks only for the submission
// step; the scheduler detaches the job and completion is detected later by
// watching the results file.
type Submitter interface {
	Submit(ctx context.Context, req *Request) error
}

// SubmitError reports a failed submission, carrying the scheduler's captured
// stderr. A partially-submitted batch job is unsafe to resubmit blindly, so
// no backend retries on its own.
type SubmitError struct {
	Script string
	Stderr string
	Err    error
}

func (e *SubmitError) Error() string {
	msg := fmt.Sprintf("submitting %s: %v", e.Script, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *SubmitError) Unwrap() error { return e.Err }

// sbatch and friends acknowledge with a line like "Submitted batch job 1234".
var jobIDPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

// CommandSubmitter submits via a scheduler command such as sbatch.
type CommandSubmitter struct {
	Command string
	Log     logrus.FieldLogger
}

func (s *CommandSubmitter) Submit(ctx context.Context, req *Request) error {
	args := make([]string, 0, 3+len(req.Args))
	args = append(args, req.Script, req.ResultsPath, req.TrialID)
	args = append(args, req.Args...)

	log := s.Log.WithFields(logrus.Fields{
		"trial":   req.TrialID,
		"command": s.Command,
		"script":  req.Script,
	})
	log.WithField("args", req.Args).Info("submitting job")

	cmd := exec.CommandContext(ctx, s.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		serr := &SubmitError{Script: req.Script, Stderr: stderr.String(), Err: err}
		log.WithError(err).WithField("stderr", strings.TrimSpace(stderr.String())).
			Error("job submission failed")
		return serr
	}

	if m := jobIDPattern.FindStringSubmatch(stdout.String()); m != nil {
		log.WithField("job_id", m[1]).Info("job submitted")
	} else {
		log.Info("job submitted")
	}
	return nil
}
