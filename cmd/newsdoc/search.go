package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fwojciec/newsdoc"
	"github.com/fwojciec/newsdoc/fs"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	term := strings.Join(c.Term, " ")

	articles, err := deps.Resolver.Resolve(deps.Ctx, term)
	if err != nil {
		if status := newsdoc.UpstreamStatus(err); status != 0 {
			fmt.Fprintf(deps.Stderr, "error: news search returned HTTP %d\n", status)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", newsdoc.ErrorMessage(err))
		}
		return err
	}

	if c.Out != "" {
		if err := export(c.Out, articles); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(articles)
}

// export writes articles into dir, replacing its previous contents only
// after every article was saved.
func export(dir string, articles []*newsdoc.Article) error {
	dir = filepath.Clean(dir)
	store, err := fs.NewArticleStore(filepath.Dir(dir), filepath.Base(dir))
	if err != nil {
		return err
	}
	for i, a := range articles {
		if err := store.Save(i, a); err != nil {
			_ = store.Abort()
			return fmt.Errorf("failed to save article %d: %w", i+1, err)
		}
	}
	return store.Commit()
}
