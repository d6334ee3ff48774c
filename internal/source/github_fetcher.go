package source

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/go-github/v80/github"

	"github.com/darmiel/ticketbind/internal/config"
	"github.com/darmiel/ticketbind/internal/core"
	"github.com/darmiel/ticketbind/internal/logging"
)

// serviceFile is the shape of one registry definition file. A file can
// carry any number of services.
type serviceFile struct {
	Services []core.RegisteredService `yaml:"services"`
}

// GitHubFetcher loads service definitions from YAML files in a GitHub
// repository.
type GitHubFetcher struct {
	cfg config.GitHubSourceConfig
}

func NewGitHubFetcher(cfg config.GitHubSourceConfig) (*GitHubFetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid GitHub source config: %w", err)
	}
	return &GitHubFetcher{cfg: cfg}, nil
}

func (f *GitHubFetcher) client() (*github.Client, error) {
	gh := github.NewClient(nil).WithAuthToken(f.cfg.Token)
	if f.cfg.ServerURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(f.cfg.ServerURL, f.cfg.ServerURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URLs: %w", err)
		}
	}
	return gh, nil
}

func (f *GitHubFetcher) Fetch(ctx context.Context, logger logging.InternalLogger) ([]core.RegisteredService, error) {
	logger.Info("Starting GitHub registry sync for repo %s/%s (ref: %s)", f.cfg.Owner, f.cfg.Repo, f.cfg.Ref)

	gh, err := f.client()
	if err != nil {
		return nil, err
	}

	ref := f.cfg.Ref
	if ref == "" {
		ref = "main"
	}

	logger.Debug("Fetching tree for ref %s...", ref)
	tree, _, err := gh.Git.GetTree(ctx, f.cfg.Owner, f.cfg.Repo, ref, true)
	if err != nil {
		return nil, fmt.Errorf("get tree failed: %w", err)
	}

	var targetFiles []string
	for _, entry := range tree.Entries {
		path := entry.GetPath()

		if entry.GetType() != "blob" {
			continue
		}

		if f.cfg.Path != "" && !strings.HasPrefix(path, f.cfg.Path) {
			continue
		}

		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			targetFiles = append(targetFiles, path)
		}
	}
	if len(targetFiles) == 0 {
		logger.Warn("No service definition files found in %s @ %s", f.cfg.Path, ref)
		return nil, nil
	}

	// sort by name so duplicate service names resolve the same way on
	// every sync (first match wins in the registry)
	slices.Sort(targetFiles)

	var allServices []core.RegisteredService
	for i, path := range targetFiles {
		logger.Debug("Downloading %d/%d: %s", i+1, len(targetFiles), path)

		fileContent, _, _, err := gh.Repositories.GetContents(ctx, f.cfg.Owner, f.cfg.Repo, path, &github.RepositoryContentGetOptions{
			Ref: ref,
		})
		if err != nil {
			logger.Warn("Failed to download %s: %v", path, err)
			return nil, fmt.Errorf("download %s: %w", path, err)
		}

		content, err := fileContent.GetContent()
		if err != nil {
			logger.Warn("Failed to decode content of %s: %v", path, err)
			return nil, fmt.Errorf("decode content %s: %w", path, err)
		}

		var file serviceFile
		if err := yaml.Unmarshal([]byte(content), &file); err != nil {
			logger.Error("Failed to parse YAML in %s: %v", path, err)
			return nil, fmt.Errorf("syntax error in %s: %w", path, err)
		}

		for _, svc := range file.Services {
			if svc.Name == "" {
				return nil, fmt.Errorf("service with empty name in %s", path)
			}
		}
		allServices = append(allServices, file.Services...)

		logger.Debug("Loaded %s, found %d services", path, len(file.Services))
	}

	logger.Info("Fetch complete. Total services loaded: %d", len(allServices))
	return allServices, nil
}
