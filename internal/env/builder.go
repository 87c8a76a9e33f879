package env

import (
	"github.com/vk/flowshell/internal/archive"
	"github.com/vk/flowshell/internal/config"
)

// mergeDependencies appends the freshly packaged session archive after the
// explicitly supplied ones, in a new slice. The session archive may
// reference symbols defined by the user's archives at class-load time, so it
// must never resolve earlier than they do.
func mergeDependencies(resolved []archive.Reference, fresh archive.Reference) []archive.Reference {
	merged := make([]archive.Reference, 0, len(resolved)+1)
	merged = append(merged, resolved...)
	merged = append(merged, fresh)
	return merged
}

// encodeDependencies writes the merged archive list into the configuration's
// dependency option, replacing any prior value. Each submission carries a
// complete snapshot, never an accumulation across submissions.
func encodeDependencies(cfg *config.Configuration, refs []archive.Reference) error {
	paths := make([]string, len(refs))
	for i, ref := range refs {
		paths[i] = ref.Path()
	}
	return cfg.SetStringList(config.KeyPipelineArchives, paths)
}

// requireAttachedMode rejects configurations that do not declare attached
// submission. It runs at construction and again on every submission, since a
// shared configuration could in principle be mutated in between.
func requireAttachedMode(cfg *config.Configuration) error {
	if !cfg.GetBool(config.KeyExecutionAttached, false) {
		return ErrUnsupportedSubmissionMode
	}
	return nil
}
