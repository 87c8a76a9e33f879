package engine

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/vk/flowshell/internal/config"
	"github.com/vk/flowshell/internal/ctxlog"
)

// Wire types of the cluster's submission API.
type (
	uploadResponse struct {
		ID string `json:"id"`
	}

	runRequest struct {
		Name       string            `json:"name"`
		ArchiveIDs []string          `json:"archiveIds"`
		Config     map[string]string `json:"config"`
	}

	runResponse struct {
		JobID string `json:"jobId"`
	}

	jobStatus struct {
		JobID         string     `json:"jobId"`
		State         JobState   `json:"state"`
		RuntimeMillis int64      `json:"runtimeMillis"`
		Failure       *wireError `json:"failure,omitempty"`
	}

	wireError struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
)

// restClient implements Client over the cluster's REST submission API.
type restClient struct {
	http         *resty.Client
	pollInterval time.Duration
}

// NewRESTClient returns a Client talking to the submission API at endpoint.
// requestTimeout bounds each individual API request, not the whole attached
// wait; that is the caller's context's job.
func NewRESTClient(endpoint string, requestTimeout time.Duration) Client {
	httpClient := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(requestTimeout)

	return &restClient{
		http:         httpClient,
		pollInterval: time.Second,
	}
}

// Submit uploads every archive in the configuration's dependency list, runs
// the job, and polls until the job reaches a terminal state.
func (c *restClient) Submit(ctx context.Context, jobName string, cfg *config.Configuration) (*JobResult, error) {
	logger := ctxlog.FromContext(ctx)

	archiveIDs, err := c.uploadArchives(ctx, cfg.GetStringList(config.KeyPipelineArchives))
	if err != nil {
		return nil, err
	}

	jobID, err := c.runJob(ctx, jobName, archiveIDs, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Job submitted.", "job_id", jobID, "name", jobName)

	return c.awaitResult(ctx, jobID)
}

// Close releases the underlying HTTP client.
func (c *restClient) Close() error {
	return c.http.Close()
}

func (c *restClient) uploadArchives(ctx context.Context, paths []string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	ids := make([]string, 0, len(paths))
	for _, path := range paths {
		var uploaded uploadResponse
		var apiErr wireError

		resp, err := c.http.R().
			SetContext(ctx).
			SetFile("archive", path).
			SetResult(&uploaded).
			SetError(&apiErr).
			Post("/v1/archives")
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("uploading %s: %v", path, err)}
		}
		if resp.IsError() {
			return nil, apiErr.toError(resp.StatusCode())
		}

		logger.Debug("Archive uploaded.", "path", path, "archive_id", uploaded.ID)
		ids = append(ids, uploaded.ID)
	}
	return ids, nil
}

func (c *restClient) runJob(ctx context.Context, jobName string, archiveIDs []string, cfg *config.Configuration) (string, error) {
	var started runResponse
	var apiErr wireError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(runRequest{
			Name:       jobName,
			ArchiveIDs: archiveIDs,
			Config:     cfg.Snapshot(),
		}).
		SetResult(&started).
		SetError(&apiErr).
		Post("/v1/jobs")
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("running job %q: %v", jobName, err)}
	}
	if resp.IsError() {
		return "", apiErr.toError(resp.StatusCode())
	}
	return started.JobID, nil
}

func (c *restClient) awaitResult(ctx context.Context, jobID string) (*JobResult, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.jobStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}

		if status.State.Terminal() {
			if status.State != StateFinished {
				failure := status.Failure
				if failure == nil {
					failure = &wireError{Message: fmt.Sprintf("job %s ended in state %s", jobID, status.State)}
				}
				return nil, failure.toError(0)
			}
			return &JobResult{
				JobID:   status.JobID,
				State:   status.State,
				Runtime: time.Duration(status.RuntimeMillis) * time.Millisecond,
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *restClient) jobStatus(ctx context.Context, jobID string) (*jobStatus, error) {
	var status jobStatus
	var apiErr wireError

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&status).
		SetError(&apiErr).
		Get("/v1/jobs/" + jobID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Message: fmt.Sprintf("polling job %s: %v", jobID, err)}
	}
	if resp.IsError() {
		return nil, apiErr.toError(resp.StatusCode())
	}
	return &status, nil
}

func (e *wireError) toError(statusCode int) *Error {
	out := &Error{Code: e.Code, Message: e.Message}
	if out.Message == "" {
		out.Message = fmt.Sprintf("engine returned HTTP %d", statusCode)
	}
	return out
}
