package submit

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/mount"
	"github.com/moby/moby/client"
	"github.com/sirupsen/logrus"
)

// Mount is an extra bind mount for a container job.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// DockerSubmitter runs the job as a detached container instead of handing it
// to a cluster scheduler. The directory holding the results file is bind
// mounted read-write so the job can append its result line; the script path
// is mounted read-only at the same path inside the container.
type DockerSubmitter struct {
	Image       string
	Env         map[string]string
	ExtraMounts []Mount
	CPULimit    float64
	MemoryLimit int64
	Log         logrus.FieldLogger
}

func (s *DockerSubmitter) Submit(ctx context.Context, req *Request) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return &SubmitError{Script: req.Script, Err: fmt.Errorf("creating docker client: %w", err)}
	}
	defer cli.Close()

	resultsDir, err := filepath.Abs(filepath.Dir(req.ResultsPath))
	if err != nil {
		return &SubmitError{Script: req.Script, Err: fmt.Errorf("resolving results dir: %w", err)}
	}
	scriptAbs, err := filepath.Abs(req.Script)
	if err != nil {
		return &SubmitError{Script: req.Script, Err: fmt.Errorf("resolving script path: %w", err)}
	}
	containerResultsPath := filepath.Join("/results", filepath.Base(req.ResultsPath))

	mounts := []mount.Mount{
		{Type: mount.TypeBind, Source: resultsDir, Target: "/results"},
		{Type: mount.TypeBind, Source: scriptAbs, Target: scriptAbs, ReadOnly: true},
	}
	for _, m := range s.ExtraMounts {
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	envSlice := make([]string, 0, len(s.Env))
	for k, v := range s.Env {
		envSlice = append(envSlice, k+"="+v)
	}

	cmd := make([]string, 0, 3+len(req.Args))
	cmd = append(cmd, scriptAbs, containerResultsPath, req.TrialID)
	cmd = append(cmd, req.Args...)

	hostCfg := &container.HostConfig{
		Mounts:     mounts,
		AutoRemove: true,
	}
	if s.CPULimit > 0 {
		hostCfg.NanoCPUs = int64(s.CPULimit * 1e9)
	}
	if s.MemoryLimit > 0 {
		hostCfg.Memory = s.MemoryLimit
	}

	containerCfg := &container.Config{
		Image:  s.Image,
		Cmd:    cmd,
		Env:    envSlice,
		Labels: map[string]string{"hyperdrome": "true", "hyperdrome.trial": req.TrialID},
	}

	log := s.Log.WithFields(logrus.Fields{
		"trial":  req.TrialID,
		"image":  s.Image,
		"script": req.Script,
	})
	log.WithField("args", req.Args).Info("submitting container job")

	createResp, err := cli.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config:     containerCfg,
		HostConfig: hostCfg,
	})
	if err != nil {
		log.WithError(err).Error("container create failed")
		return &SubmitError{Script: req.Script, Err: fmt.Errorf("creating container: %w", err)}
	}

	// Start and detach. Completion is observed through the results file,
	// never through the container itself.
	if _, err := cli.ContainerStart(ctx, createResp.ID, client.ContainerStartOptions{}); err != nil {
		cli.ContainerRemove(context.Background(), createResp.ID, client.ContainerRemoveOptions{Force: true})
		log.WithError(err).Error("container start failed")
		return &SubmitError{Script: req.Script, Err: fmt.Errorf("starting container: %w", err)}
	}

	log.WithField("container", createResp.ID[:12]).Info("job submitted")
	return nil
}
