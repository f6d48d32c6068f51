package config

import (
	"os"

	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/paths"
)

// ResolveDocumentPaths turns configured document references into
// concrete file paths. Each entry may name a document directly or a
// directory to search for one; an empty list searches the working
// directory. A reference that resolves to nothing is fatal: a run with
// no documents has nothing to do.
func ResolveDocumentPaths(refs []string) ([]string, error) {
	if len(refs) == 0 {
		refs = []string{"."}
	}

	resolved := make([]string, 0, len(refs))
	for _, ref := range refs {
		norm := paths.Normalize(ref, "")

		info, err := os.Stat(norm)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"cannot access config path %s", norm)
		}

		if info.IsDir() {
			docPath, err := paths.FindConfigFile(norm)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad,
					"no config document in %s", norm)
			}
			resolved = append(resolved, docPath)
			continue
		}

		resolved = append(resolved, norm)
	}

	return resolved, nil
}
