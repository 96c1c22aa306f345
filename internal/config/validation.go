package config

import (
	"fmt"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// ValidateEngineConfig performs the checks the build host runs before any
// file is copied or rendered. Resolution itself never calls this.
func ValidateEngineConfig(cfg EngineConfig) error {
	if err := validateDirectories(cfg.Dir); err != nil {
		return err
	}
	if !cfg.MarkdownTemplateEngine.IsSupported() {
		return serrors.ValidationFailed("markdownTemplateEngine",
			fmt.Sprintf("unsupported template engine %q", cfg.MarkdownTemplateEngine))
	}
	if !cfg.HTMLTemplateEngine.IsSupported() {
		return serrors.ValidationFailed("htmlTemplateEngine",
			fmt.Sprintf("unsupported template engine %q", cfg.HTMLTemplateEngine))
	}
	return nil
}

func validateDirectories(d DirectoryMap) error {
	for _, role := range d.Roles() {
		if strings.TrimSpace(role.Path) == "" {
			return serrors.ValidationFailed("dir."+role.Name, "path must not be empty")
		}
	}
	// Roles are compared where they actually live: includes and layouts
	// under input, input and output under the project root.
	seen := make(map[string]string, 4)
	for _, role := range d.RootRelative() {
		clean := filepath.Clean(role.Path)
		if other, dup := seen[clean]; dup {
			return serrors.ValidationFailed("dir."+role.Name,
				fmt.Sprintf("path %q collides with dir.%s", role.Path, other))
		}
		seen[clean] = role.Name
	}
	if IsAncestorOrSelf(d.Output, d.Input) {
		return serrors.ValidationFailed("dir.output",
			fmt.Sprintf("output %q must not contain input %q", d.Output, d.Input))
	}
	return nil
}

// IsAncestorOrSelf reports whether child equals parent or lies beneath it.
// Both paths are compared lexically after cleaning.
func IsAncestorOrSelf(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
