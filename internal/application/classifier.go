package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// Diff filters passed to the changed-files query.
const (
	// DiffFilterAll includes deleted files.
	DiffFilterAll = ""
	// DiffFilterNoDeletes excludes deleted files; used when the head version
	// of every changed document must be readable.
	DiffFilterNoDeletes = "d"
)

// ChangeClassifier classifies the specification changes of a pull request
// against its reference commit. It holds no state between calls; every
// predicate queries the repository again.
type ChangeClassifier struct {
	repo driven.RepoState
}

// NewChangeClassifier creates a ChangeClassifier backed by the given repository state.
func NewChangeClassifier(repo driven.RepoState) *ChangeClassifier {
	return &ChangeClassifier{repo: repo}
}

// ChangedResourceManagerFiles returns the OpenAPI documents under a
// resource-manager tree that changed between the pull request's base and
// head commits.
func (c *ChangeClassifier) ChangedResourceManagerFiles(ctx context.Context, pr model.PullRequest, diffFilter string) ([]string, error) {
	changed, err := c.repo.ChangedFiles(ctx, pr.BaseCommit, pr.HeadCommit, diffFilter)
	if err != nil {
		return nil, fmt.Errorf("listing changed files %s..%s: %w", pr.BaseCommit, pr.HeadCommit, err)
	}

	files := model.FilterResourceManager(model.FilterSwagger(changed))
	slog.Info("changed resource-manager files", "count", len(files), "files", files)
	return files, nil
}

// ClassifyResourceProvider reports RPServiceExisting when every file belongs
// to a service directory that already exists at the base commit. An empty
// change set, or a single file in a missing directory, makes the pull
// request RPServiceNew.
func (c *ChangeClassifier) ClassifyResourceProvider(ctx context.Context, pr model.PullRequest, files []string) (model.RPClassification, error) {
	if len(files) == 0 {
		slog.Info("no changes to resource-manager swagger files")
		return model.RPServiceNew, nil
	}

	for _, file := range files {
		dir := model.ServiceDirectoryOf(file)
		exists, err := c.repo.PathExists(ctx, pr.BaseCommit, dir)
		if err != nil {
			return "", fmt.Errorf("checking service directory %s at %s: %w", dir, pr.BaseCommit, err)
		}
		if !exists {
			slog.Info("change adds a new resource provider service", "file", file, "service_dir", dir)
			return model.RPServiceNew, nil
		}
	}

	slog.Info("change touches existing resource provider services only", "files", len(files))
	return model.RPServiceExisting, nil
}

// ClassifyTypeSpec reports how the change relates to TypeSpec generation:
//   - TypeSpecNoop when no changed document carries the generated marker;
//   - TypeSpecIncremental when some touched service directory already had a
//     generated document at the base commit;
//   - TypeSpecNew otherwise.
func (c *ChangeClassifier) ClassifyTypeSpec(ctx context.Context, pr model.PullRequest, files []string) (model.TypeSpecClassification, error) {
	if len(files) == 0 {
		slog.Info("no changes to resource-manager swagger files")
		return model.TypeSpecNoop, nil
	}

	generated, err := c.anyGenerated(ctx, pr, files)
	if err != nil {
		return "", err
	}
	if !generated {
		slog.Info("changes contain no documents generated from TypeSpec")
		return model.TypeSpecNoop, nil
	}

	checked := make(map[string]bool)
	for _, file := range files {
		dir := model.ServiceDirectoryOf(file)
		if checked[dir] {
			continue
		}
		checked[dir] = true

		had, err := c.generatedAt(ctx, pr.BaseCommit, dir)
		if err != nil {
			return "", err
		}
		if had {
			slog.Info("service already has TypeSpec generated documents", "service_dir", dir, "ref", pr.BaseCommit)
			return model.TypeSpecIncremental, nil
		}
		slog.Info("service has no TypeSpec generated documents yet", "service_dir", dir, "ref", pr.BaseCommit)
	}

	return model.TypeSpecNew, nil
}

// anyGenerated reports whether the head version of any file carries the marker.
func (c *ChangeClassifier) anyGenerated(ctx context.Context, pr model.PullRequest, files []string) (bool, error) {
	for _, file := range files {
		content, err := c.headContent(ctx, pr, file)
		if err != nil {
			return false, err
		}
		generated, err := model.IsTypeSpecGenerated(content)
		if err != nil {
			return false, fmt.Errorf("%s: %w", file, err)
		}
		slog.Debug("checked head document", "file", file, "typespec_generated", generated)
		if generated {
			return true, nil
		}
	}
	return false, nil
}

// generatedAt reports whether any OpenAPI document below dir at ref carries
// the marker.
func (c *ChangeClassifier) generatedAt(ctx context.Context, ref, dir string) (bool, error) {
	files, err := c.repo.ListFiles(ctx, ref, dir)
	if err != nil {
		return false, fmt.Errorf("listing %s at %s: %w", dir, ref, err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file, ".json") || strings.Contains(file, "/examples/") {
			continue
		}
		content, err := c.repo.FileContent(ctx, ref, file)
		if err != nil {
			return false, fmt.Errorf("reading %s at %s: %w", file, ref, err)
		}
		generated, err := model.IsTypeSpecGenerated(content)
		if err != nil {
			return false, fmt.Errorf("%s at %s: %w", file, ref, err)
		}
		if generated {
			slog.Debug("found generated document", "file", file, "ref", ref)
			return true, nil
		}
	}
	return false, nil
}

// headContent reads the head version of file. When the head commit is the
// checked-out HEAD the workspace copy is read, as the job checks it out.
func (c *ChangeClassifier) headContent(ctx context.Context, pr model.PullRequest, file string) ([]byte, error) {
	if pr.HeadCommit == "" || pr.HeadCommit == "HEAD" {
		content, err := c.repo.WorkspaceFile(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		return content, nil
	}

	content, err := c.repo.FileContent(ctx, pr.HeadCommit, file)
	if err != nil {
		return nil, fmt.Errorf("reading %s at %s: %w", file, pr.HeadCommit, err)
	}
	return content, nil
}
