package env

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowshell/internal/archive"
	"github.com/vk/flowshell/internal/config"
	"github.com/vk/flowshell/internal/engine"
)

// writeJar creates a minimal valid archive at path.
func writeJar(t *testing.T, path string) string {
	t.Helper()

	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	w, err := zw.Create("META-INF/MANIFEST.MF")
	require.NoError(t, err)
	_, err = w.Write([]byte("Manifest-Version: 1.0\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

// fakeSession hands out a fresh real archive on every flush, mimicking the
// interactive session's always-repackage behaviour.
type fakeSession struct {
	t       *testing.T
	dir     string
	flushes int
	failErr error
}

func newFakeSession(t *testing.T) *fakeSession {
	return &fakeSession{t: t, dir: t.TempDir()}
}

func (f *fakeSession) ID() string { return "fake-session" }

func (f *fakeSession) FlushToArchive() (archive.Reference, error) {
	if f.failErr != nil {
		return archive.Reference{}, f.failErr
	}
	f.flushes++
	path := writeJar(f.t, filepath.Join(f.dir, fmt.Sprintf("session-%d.jar", f.flushes)))
	return archive.NewReference(path)
}

func (f *fakeSession) Close() error { return nil }

// fakeClient records each submission's dependency snapshot.
type fakeClient struct {
	submissions []submission
	result      *engine.JobResult
	failErr     error
}

type submission struct {
	jobName  string
	archives []string
	attached bool
}

func (f *fakeClient) Submit(ctx context.Context, jobName string, cfg *config.Configuration) (*engine.JobResult, error) {
	f.submissions = append(f.submissions, submission{
		jobName:  jobName,
		archives: cfg.GetStringList(config.KeyPipelineArchives),
		attached: cfg.GetBool(config.KeyExecutionAttached, false),
	})
	if f.failErr != nil {
		return nil, f.failErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &engine.JobResult{JobID: "job-1", State: engine.StateFinished}, nil
}

func (f *fakeClient) Close() error { return nil }

func attachedConfig() *config.Configuration {
	cfg := config.New()
	cfg.SetBool(config.KeyExecutionAttached, true)
	return cfg
}

func TestShellEnvironment_SubmitsDepsPlusSessionArchive(t *testing.T) {
	freshGuard(t)

	dir := t.TempDir()
	depA := writeJar(t, filepath.Join(dir, "a.jar"))
	depB := writeJar(t, filepath.Join(dir, "b.jar"))

	sess := newFakeSession(t)
	client := &fakeClient{}
	shell, err := NewShellEnvironment(attachedConfig(), sess, client, depA, depB)
	require.NoError(t, err)

	result, err := shell.Execute(context.Background(), "job1")
	require.NoError(t, err)
	assert.Equal(t, engine.StateFinished, result.State)

	require.Len(t, client.submissions, 1)
	first := client.submissions[0]
	assert.Equal(t, "job1", first.jobName)
	assert.True(t, first.attached)
	require.Len(t, first.archives, 3, "explicit deps plus exactly one session archive")
	assert.Equal(t, depA, first.archives[0])
	assert.Equal(t, depB, first.archives[1])
	assert.Contains(t, first.archives[2], "session-1.jar")

	// A second run submits the same explicit deps but a fresh session archive.
	_, err = shell.Execute(context.Background(), "job2")
	require.NoError(t, err)

	require.Len(t, client.submissions, 2)
	second := client.submissions[1]
	require.Len(t, second.archives, 3)
	assert.Equal(t, first.archives[:2], second.archives[:2])
	assert.NotEqual(t, first.archives[2], second.archives[2], "the session archive must be repackaged per submission")
}

func TestShellEnvironment_NoExplicitDeps(t *testing.T) {
	freshGuard(t)

	sess := newFakeSession(t)
	client := &fakeClient{}
	shell, err := NewShellEnvironment(attachedConfig(), sess, client)
	require.NoError(t, err)

	_, err = shell.Execute(context.Background(), "job1")
	require.NoError(t, err)

	require.Len(t, client.submissions, 1)
	require.Len(t, client.submissions[0].archives, 1)
	assert.Contains(t, client.submissions[0].archives[0], "session-1.jar")
}

func TestShellEnvironment_UnattachedConfigFailsBeforePackaging(t *testing.T) {
	freshGuard(t)

	cfg := attachedConfig()
	sess := newFakeSession(t)
	client := &fakeClient{}
	shell, err := NewShellEnvironment(cfg, sess, client)
	require.NoError(t, err)

	// Some other holder of the shared configuration flips the mode after
	// construction; the per-submission check must catch it.
	cfg.SetBool(config.KeyExecutionAttached, false)

	_, err = shell.Execute(context.Background(), "job1")
	require.ErrorIs(t, err, ErrUnsupportedSubmissionMode)
	assert.Zero(t, sess.flushes, "no packaging side effect before the precondition check")
	assert.Empty(t, client.submissions)
}

func TestShellEnvironment_ConstructionRequiresAttachedMode(t *testing.T) {
	freshGuard(t)

	_, err := NewShellEnvironment(config.New(), newFakeSession(t), &fakeClient{})
	require.ErrorIs(t, err, ErrUnsupportedSubmissionMode)
}

func TestShellEnvironment_ConstructionBlockedByManagedContext(t *testing.T) {
	freshGuard(t)

	require.NoError(t, InstallContextFactory(func() (Environment, error) {
		return stubEnvironment{}, nil
	}))

	_, err := NewShellEnvironment(attachedConfig(), newFakeSession(t), &fakeClient{})
	require.ErrorIs(t, err, ErrEnvironmentDisallowed)

	ResetContextEnvironments()
	DisableAllOtherEnvironments()

	_, err = NewShellEnvironment(attachedConfig(), newFakeSession(t), &fakeClient{})
	require.ErrorIs(t, err, ErrEnvironmentDisallowed)
}

func TestShellEnvironment_InvalidDependencyFailsConstruction(t *testing.T) {
	freshGuard(t)

	sess := newFakeSession(t)
	missing := filepath.Join(t.TempDir(), "missing.jar")

	_, err := NewShellEnvironment(attachedConfig(), sess, &fakeClient{}, missing)
	require.ErrorIs(t, err, archive.ErrInvalidDependencyPath)
	assert.ErrorContains(t, err, missing)
	assert.Zero(t, sess.flushes, "resolution failure must never reach the packaging step")
}

func TestShellEnvironment_PackagingFailure(t *testing.T) {
	freshGuard(t)

	sess := newFakeSession(t)
	sess.failErr = fmt.Errorf("disk full")
	client := &fakeClient{}
	shell, err := NewShellEnvironment(attachedConfig(), sess, client)
	require.NoError(t, err)

	_, err = shell.Execute(context.Background(), "job1")
	require.ErrorIs(t, err, ErrArtifactPackagingFailed)
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, client.submissions, "no submission is attempted without a session archive")
}

func TestShellEnvironment_EngineErrorPassthrough(t *testing.T) {
	freshGuard(t)

	engineErr := &engine.Error{Code: "QUOTA_EXCEEDED", Message: "too many running jobs"}
	sess := newFakeSession(t)
	client := &fakeClient{failErr: engineErr}
	shell, err := NewShellEnvironment(attachedConfig(), sess, client)
	require.NoError(t, err)

	_, err = shell.Execute(context.Background(), "job1")
	var passed *engine.Error
	require.ErrorAs(t, err, &passed)
	assert.Same(t, engineErr, passed, "engine failures pass through unchanged")
	assert.Len(t, client.submissions, 1, "no automatic retry")

	// A later attempt by the user repackages from scratch.
	_, err = shell.Execute(context.Background(), "job1")
	require.Error(t, err)
	assert.Equal(t, 2, sess.flushes)
	assert.Len(t, client.submissions, 2)
}

func TestRemoteEnvironment_Execute(t *testing.T) {
	freshGuard(t)

	cfg := attachedConfig()
	require.NoError(t, cfg.SetStringList(config.KeyPipelineArchives, []string{"/libs/fixed.jar"}))

	client := &fakeClient{}
	remote, err := NewRemoteEnvironment(cfg, client)
	require.NoError(t, err)

	_, err = remote.Execute(context.Background(), "batch-job")
	require.NoError(t, err)

	require.Len(t, client.submissions, 1)
	assert.Equal(t, "batch-job", client.submissions[0].jobName)
	assert.Equal(t, []string{"/libs/fixed.jar"}, client.submissions[0].archives)
	assert.Equal(t, "batch-job", cfg.GetString(config.KeyPipelineName, ""))
}

func TestMergeDependencies_PureAndOrdered(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	refA, err := archive.NewReference(writeJar(t, filepath.Join(dir, "a.jar")))
	require.NoError(t, err)
	refB, err := archive.NewReference(writeJar(t, filepath.Join(dir, "b.jar")))
	require.NoError(t, err)
	fresh, err := archive.NewReference(writeJar(t, filepath.Join(dir, "session.jar")))
	require.NoError(t, err)

	resolved := []archive.Reference{refA, refB}
	merged := mergeDependencies(resolved, fresh)

	require.Len(t, merged, 3)
	assert.Equal(t, []archive.Reference{refA, refB, fresh}, merged)
	assert.Equal(t, []archive.Reference{refA, refB}, resolved, "inputs must not be mutated")

	alone := mergeDependencies(nil, fresh)
	assert.Equal(t, []archive.Reference{fresh}, alone)
}
