package config

// Backend names accepted by the backend key.
const (
	BackendGoGit = "gogit"
	BackendGit   = "git"
)

// DefaultChangelogFilter selects which commit lines make it into a changelog section.
const DefaultChangelogFilter = "Add"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"repo_path":        ".",
		"tag_prefix":       "v",
		"changelog_filter": DefaultChangelogFilter,
		"backend":          BackendGoGit,
		"git_binary":       "git",
	}
}
