// Package fs exports extracted articles as text files.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/newsdoc"
)

// ArticleStore writes articles into a directory with atomic update semantics.
// Articles are saved to a temporary directory, then moved into place on Commit.
type ArticleStore struct {
	baseDir string
	name    string
}

// NewArticleStore creates a new ArticleStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewArticleStore(baseDir, name string) (*ArticleStore, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, newsdoc.Errorf(newsdoc.EINVALID, "invalid output name %q", name)
	}
	return &ArticleStore{baseDir: baseDir, name: name}, nil
}

func (s *ArticleStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ArticleStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// FileName returns the file name for the article at position (zero-based)
// in ranking order.
func FileName(position int) string {
	return fmt.Sprintf("%02d.md", position+1)
}

// Save writes the article at position into the temporary directory.
func (s *ArticleStore) Save(position int, a *newsdoc.Article) error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	path := filepath.Join(s.tempDir(), FileName(position))
	return os.WriteFile(path, []byte(FormatArticle(a)), 0644)
}

// FormatArticle formats an article with YAML frontmatter. Articles without
// extracted text get the description as their body.
func FormatArticle(a *newsdoc.Article) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: ")
	b.WriteString(quote(a.Title))
	b.WriteString("\nsource: ")
	b.WriteString(quote(a.OriginalLink))
	b.WriteString("\nlink: ")
	b.WriteString(quote(a.Link))
	b.WriteString("\npublished: ")
	b.WriteString(quote(a.PubDate))
	b.WriteString("\ncharset: ")
	b.WriteString(quote(a.Charset))
	if len(a.ImageURLs) > 0 {
		b.WriteString("\nimages:")
		for _, u := range a.ImageURLs {
			b.WriteString("\n  - ")
			b.WriteString(quote(u))
		}
	}
	b.WriteString("\n---\n\n")
	if a.ArticleText != nil {
		b.WriteString(*a.ArticleText)
	} else {
		b.WriteString(a.Description)
	}
	b.WriteString("\n")
	return b.String()
}

// quote renders s as a double-quoted YAML scalar.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// Commit replaces the output directory with the saved articles.
func (s *ArticleStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved articles.
func (s *ArticleStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
