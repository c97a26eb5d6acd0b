package cli

import (
	"fmt"
	"strings"

	"github.com/studiowebux/sihui/internal/config"
	"github.com/studiowebux/sihui/internal/filter"
)

// resolveSavedQueries expands @name references in --filter and --query
func resolveSavedQueries(filterExpr, queryExpr string) (string, string, error) {
	if !strings.HasPrefix(filterExpr, filter.BookmarkPrefix) && !strings.HasPrefix(queryExpr, filter.BookmarkPrefix) {
		return filterExpr, queryExpr, nil
	}

	bookmarks, err := filter.NewBookmarkManager(config.DatabaseFile)
	if err != nil {
		return "", "", err
	}
	defer bookmarks.Close()

	if filterExpr, err = bookmarks.Resolve(filterExpr); err != nil {
		return "", "", err
	}
	if queryExpr, err = bookmarks.Resolve(queryExpr); err != nil {
		return "", "", err
	}
	return filterExpr, queryExpr, nil
}

func (a *App) withBookmarks(fn func(*filter.BookmarkManager) error) error {
	bookmarks, err := filter.NewBookmarkManager(config.DatabaseFile)
	if err != nil {
		return err
	}
	defer bookmarks.Close()
	return fn(bookmarks)
}

// SaveQuery stores expression for later use as --query @name
func (a *App) SaveQuery(name, expression string) error {
	return a.withBookmarks(func(b *filter.BookmarkManager) error {
		if err := b.Save(name, expression); err != nil {
			return err
		}
		a.Printer.Success(fmt.Sprintf("Saved query %s%s", filter.BookmarkPrefix, name))
		return nil
	})
}

// DeleteQuery removes a saved query
func (a *App) DeleteQuery(name string) error {
	name = strings.TrimPrefix(name, filter.BookmarkPrefix)
	return a.withBookmarks(func(b *filter.BookmarkManager) error {
		if err := b.Delete(name); err != nil {
			return err
		}
		a.Printer.Success(fmt.Sprintf("Deleted query %s%s", filter.BookmarkPrefix, name))
		return nil
	})
}

// ListQueries prints the saved queries
func (a *App) ListQueries() error {
	return a.withBookmarks(func(b *filter.BookmarkManager) error {
		list, err := b.List()
		if err != nil {
			return err
		}

		if a.Printer.Format() != FormatText {
			return a.Printer.Print(list)
		}
		if len(list) == 0 {
			fmt.Fprintln(a.out, mutedStyle.Render("No saved queries"))
			return nil
		}
		for _, q := range list {
			fmt.Fprintf(a.out, "%s %s\n", labelStyle.Render(filter.BookmarkPrefix+q.Name), q.Expression)
		}
		return nil
	})
}
