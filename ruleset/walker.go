package ruleset

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultSkipFolders are the administrative rule sets excluded from every
// run. Skipping them is not an error.
var DefaultSkipFolders = []string{
	"National Biodiversity Network Trust",
	"Personal",
	"SystemRules",
}

// ReadTree ingests every organisation folder under root, skipping the
// named top-level folders. Returns false if any organisation reported an
// error; the run always continues.
func (p *Parser) ReadTree(root string, skipFolders []string) bool {
	folders := listFolders(root)
	if len(folders) == 0 {
		log.Warn().Str("folder", root).Msg("no organisation folders found")
		return false
	}

	skip := make(map[string]bool, len(skipFolders))
	for _, s := range skipFolders {
		skip[s] = true
	}

	ok := true
	for i, folder := range folders {
		name := filepath.Base(folder)
		log.Info().Int("n", i+1).Int("of", len(folders)).Str("organisation", name).Msg("processing folder")
		if skip[name] {
			log.Info().Str("organisation", name).Msg("skipping folder")
			continue
		}
		if !p.ReadRules(folder) {
			ok = false
			log.Warn().Str("organisation", name).Msg("error occurred while processing files")
		}
	}
	return ok
}

// ReadRules ingests one organisation's rule folder. The nested layout is
// inconsistent across organisations, so routing is driven by folder names:
//
//   - a subfolder containing "idifficulty" routes its whole subtree to the
//     difficulty grammar;
//   - a group with no sub-subfolders falls back on "period"/"range" name
//     substrings (non-standard BSBI layout);
//   - otherwise each leaf is matched exactly against the known kind names.
//
// An unrecognized leaf is an error for that leaf only.
func (p *Parser) ReadRules(orgRoot string) bool {
	log.Info().Str("folder", orgRoot).Msg("reading folder")
	org := filepath.Base(orgRoot)

	folders := listFolders(orgRoot)
	if len(folders) == 0 {
		log.Warn().Str("folder", orgRoot).Msg("no folders found in folder")
		return false
	}

	ok := true
	for _, folder := range folders {
		rv := true
		if strings.Contains(strings.ToLower(filepath.Base(folder)), "idifficulty") {
			rv = p.processDifficulty(org, folder)
		} else {
			for _, group := range listFolders(folder) {
				leaves := listFolders(group)
				if len(leaves) == 0 {
					name := strings.ToLower(filepath.Base(group))
					switch {
					case strings.Contains(name, "period"):
						if !p.processPeriod(org, group) {
							rv = false
						}
					case strings.Contains(name, "range"):
						if !p.processRange(org, group) {
							rv = false
						}
					default:
						log.Error().Str("folder", group).Msg("unknown rule folder type")
						rv = false
					}
					continue
				}
				for _, leaf := range leaves {
					kind, found := KindForFolder(filepath.Base(leaf))
					if !found {
						log.Error().Str("folder", leaf).Msg("unknown rule folder type")
						rv = false
						continue
					}
					if !p.processKind(kind, org, leaf) {
						rv = false
					}
				}
			}
		}
		if !rv {
			ok = false
		}
	}
	return ok
}

// processKind dispatches a classified leaf folder to its grammar.
func (p *Parser) processKind(kind Kind, org, folder string) bool {
	switch kind {
	case KindAdditional:
		return p.processAdditional(org, folder)
	case KindDifficulty:
		return p.processDifficulty(org, folder)
	case KindFlightPeriod:
		return p.processFlightPeriod(org, folder)
	case KindPeriod:
		return p.processPeriod(org, folder)
	case KindRange:
		return p.processRange(org, folder)
	case KindRegion:
		return p.processTenkm(org, folder)
	case KindSeasonal:
		return p.processSeasonal(org, folder)
	}
	return false
}

// listFiles returns the files directly inside folder, sorted by name.
func listFiles(folder string) []string {
	entries, err := os.ReadDir(folder)
	if err != nil {
		log.Error().Err(err).Str("folder", folder).Msg("cannot list folder")
		return nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}
	return files
}

// listFilesRecursive returns every file under folder, at any depth.
func listFilesRecursive(folder string) []string {
	var files []string
	_ = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("cannot walk folder")
			return nil
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files
}

// listFolders returns the directories directly inside folder, sorted by name.
func listFolders(folder string) []string {
	entries, err := os.ReadDir(folder)
	if err != nil {
		log.Error().Err(err).Str("folder", folder).Msg("cannot list folder")
		return nil
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, filepath.Join(folder, e.Name()))
		}
	}
	return folders
}
