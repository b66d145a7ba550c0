package gitmeta

import (
	"log/slog"
	"time"

	gogit "github.com/go-git/go-git/v5"
)

// Provider reads repository metadata from the git checkout containing
// the artifact tree.
type Provider struct {
	path   string
	logger *slog.Logger
}

// Info is a summary of the repository state.
type Info struct {
	RevisionCount  int
	HeadHash       string
	Branch         string
	RemoteURL      string
	Dirty          bool
	LastCommitDate time.Time
}

// NewProvider creates a provider rooted at path. The path may be any
// directory inside the repository; the enclosing .git directory is
// detected automatically.
func NewProvider(path string) *Provider {
	return &Provider{
		path:   path,
		logger: slog.Default().With("component", "gitmeta"),
	}
}

func (p *Provider) open() (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(p.path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
}

// RevisionCount returns the number of commits reachable from HEAD, or
// 0 when the directory is not a repository or HEAD cannot be resolved.
func (p *Provider) RevisionCount() int {
	repo, err := p.open()
	if err != nil {
		p.logger.Debug("not a git repository", "path", p.path, "error", err)
		return 0
	}

	head, err := repo.Head()
	if err != nil {
		p.logger.Debug("cannot resolve HEAD", "error", err)
		return 0
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		p.logger.Debug("cannot walk commit log", "error", err)
		return 0
	}
	defer iter.Close()

	count := 0
	for {
		if _, err := iter.Next(); err != nil {
			break
		}
		count++
	}

	p.logger.Debug("revision count resolved", "count", count)
	return count
}

// HeadHash returns the full hash of the HEAD commit, or "" when it
// cannot be resolved.
func (p *Provider) HeadHash() string {
	repo, err := p.open()
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}

// RepositoryInfo gathers a full metadata summary. Every field degrades
// independently; a failure in one lookup never blanks the others.
func (p *Provider) RepositoryInfo() Info {
	info := Info{
		RevisionCount: p.RevisionCount(),
		HeadHash:      p.HeadHash(),
	}

	repo, err := p.open()
	if err != nil {
		return info
	}

	if head, err := repo.Head(); err == nil {
		info.Branch = head.Name().Short()
		if commit, err := repo.CommitObject(head.Hash()); err == nil {
			info.LastCommitDate = commit.Committer.When
		}
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.RemoteURL = urls[0]
		}
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			info.Dirty = !status.IsClean()
		}
	}

	return info
}
