package site

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	serrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// PassthroughResult records what one passthrough rule copied.
type PassthroughResult struct {
	Rule        string `yaml:"rule" json:"rule"`
	Source      string `yaml:"source" json:"source"`
	Destination string `yaml:"destination" json:"destination"`
	Files       int    `yaml:"files" json:"files"`
	Bytes       int64  `yaml:"bytes" json:"bytes"`
}

// PassthroughDestination maps a rule path onto the output tree. Paths inside
// the input directory keep their location relative to it; anything else keeps
// its location relative to the project root.
func PassthroughDestination(rule string, dir config.DirectoryMap) string {
	clean := filepath.Clean(rule)
	if config.IsAncestorOrSelf(dir.Input, clean) {
		rel, err := filepath.Rel(filepath.Clean(dir.Input), clean)
		if err == nil {
			return filepath.Join(dir.Output, rel)
		}
	}
	return filepath.Join(dir.Output, clean)
}

// copyPassthrough copies one rule from root into the output tree.
func copyPassthrough(root, rule string, dir config.DirectoryMap) (PassthroughResult, error) {
	res := PassthroughResult{
		Rule:        rule,
		Source:      filepath.Join(root, rule),
		Destination: filepath.Join(root, PassthroughDestination(rule, dir)),
	}

	if _, err := os.Stat(res.Source); err != nil {
		return res, serrors.PassthroughMissing(rule, err)
	}
	output := filepath.Join(root, dir.Output)
	if config.IsAncestorOrSelf(res.Source, output) {
		return res, serrors.ValidationFailed("passthrough",
			fmt.Sprintf("rule %q contains the output directory %q", rule, dir.Output))
	}

	files, n, err := CopyPath(res.Source, res.Destination)
	res.Files, res.Bytes = files, n
	if err != nil {
		return res, serrors.CopyFailed(res.Source, res.Destination, err)
	}
	return res, nil
}

// CopyPath copies a file or a directory tree from src to dst byte for byte,
// preserving file permission bits. Symlinks are followed; a directory link
// that leads back into a tree being copied is an error. It returns the number
// of files and bytes copied.
func CopyPath(src, dst string) (int, int64, error) {
	real, err := filepath.EvalSymlinks(src)
	if err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(real)
	if err != nil {
		return 0, 0, err
	}
	if !info.IsDir() {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return 0, 0, err
		}
		n, err := copyFile(real, dst, info.Mode())
		if err != nil {
			return 0, 0, err
		}
		return 1, n, nil
	}

	c := &treeCopier{active: map[string]bool{}}
	err = c.copyDir(real, dst)
	return c.files, c.bytes, err
}

// treeCopier tracks the real paths of the directories currently being walked.
type treeCopier struct {
	active map[string]bool
	files  int
	bytes  int64
}

// copyDir copies the tree rooted at src, which must already be a resolved path.
func (c *treeCopier) copyDir(src, dst string) error {
	if c.active[src] {
		return fmt.Errorf("symlink cycle: %s is already being copied", src)
	}
	c.active[src] = true
	defer delete(c.active, src)

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.Type()&fs.ModeSymlink != 0 {
			real, err := filepath.EvalSymlinks(path)
			if err != nil {
				return err
			}
			info, err := os.Stat(real)
			if err != nil {
				return err
			}
			if info.IsDir() {
				return c.copyDir(real, target)
			}
			return c.copyOne(real, target, info.Mode())
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		return c.copyOne(path, target, info.Mode())
	})
}

func (c *treeCopier) copyOne(src, dst string, mode fs.FileMode) error {
	n, err := copyFile(src, dst, mode)
	if err != nil {
		return err
	}
	c.files++
	c.bytes += n
	return nil
}

// copyFile copies a single file from src to dst. An existing dst is removed
// first so read-only copies from an earlier run can be replaced.
func copyFile(src, dst string, mode fs.FileMode) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode.Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(dstFile, srcFile)
	if cerr := dstFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	// OpenFile applies the umask; set the exact source bits.
	return n, os.Chmod(dst, mode.Perm())
}
