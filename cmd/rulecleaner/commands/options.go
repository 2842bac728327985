package commands

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nbntools/rulecleaner/ruleset"
)

// Options is the optional run configuration YAML.
type Options struct {
	// SkipFolders lists top-level organisation folders to ignore.
	SkipFolders []string `yaml:"skip_folders"`
	// SpeciesFile is the master species list file name inside the input
	// folder.
	SpeciesFile string `yaml:"species_file"`
}

// defaultOptions covers the standard NBN rule tree layout.
func defaultOptions() Options {
	return Options{
		SkipFolders: ruleset.DefaultSkipFolders,
		SpeciesFile: "MasterSpeciesList.txt",
	}
}

// loadOptions reads and unmarshals the options YAML. An empty path returns
// the defaults; fields omitted from the file keep their defaults.
func loadOptions(path string) (Options, error) {
	opts := defaultOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, err
	}
	if opts.SpeciesFile == "" {
		opts.SpeciesFile = "MasterSpeciesList.txt"
	}
	return opts, nil
}
