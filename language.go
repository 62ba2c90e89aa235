package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed languages.yml
var defaultLanguagesYAML []byte

// LanguageInfo holds the fields of a languages.yml entry used for file detection.
type LanguageInfo struct {
	Type       string   `yaml:"type"` // e.g., programming, data, markup
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// LanguageMap maps language names (e.g., "Go") to their details.
type LanguageMap map[string]LanguageInfo

// LoadedLanguageData holds the parsed language map and its lookup tables.
type LoadedLanguageData struct {
	Langs        LanguageMap
	extensionMap map[string]string // ".go" -> "Go"
	filenameMap  map[string]string // "Makefile" -> "Makefile"
}

// loadLanguageData reads languages.yml from the config directory or the working directory,
// falling back to the built-in table.
func loadLanguageData(logger *zap.Logger) (*LoadedLanguageData, error) {
	configPaths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".config", "tc"))
	}
	configPaths = append(configPaths, ".")

	for _, p := range configPaths {
		langFilePath := filepath.Join(p, "languages.yml")
		if _, err := os.Stat(langFilePath); err != nil {
			continue
		}
		logger.Debug("loading language definitions", zap.String("path", langFilePath))
		yamlFile, err := os.ReadFile(langFilePath)
		if err != nil {
			return nil, fmt.Errorf("error reading language file %s: %w", langFilePath, err)
		}
		data, err := parseLanguageData(yamlFile)
		if err != nil {
			return nil, fmt.Errorf("error parsing language file %s: %w", langFilePath, err)
		}
		return data, nil
	}
	return parseLanguageData(defaultLanguagesYAML)
}

func parseLanguageData(raw []byte) (*LoadedLanguageData, error) {
	var langs LanguageMap
	if err := yaml.Unmarshal(raw, &langs); err != nil {
		return nil, err
	}

	data := &LoadedLanguageData{
		Langs:        langs,
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}
	// Map iteration order is random; sort so shared extensions resolve the same way every run.
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, langName := range names {
		info := langs[langName]
		for _, ext := range info.Extensions {
			lowerExt := strings.ToLower(ext)
			if data.extensionMap[lowerExt] == "" {
				data.extensionMap[lowerExt] = langName
			}
		}
		for _, fname := range info.Filenames {
			if data.filenameMap[fname] == "" {
				data.filenameMap[fname] = langName
			}
		}
	}
	return data, nil
}

// GetLanguageForFile determines the language for a given path based on loaded data.
func (ld *LoadedLanguageData) GetLanguageForFile(filePath string) (string, bool) {
	if ld == nil {
		return "", false
	}

	baseName := filepath.Base(filePath)
	// Exact filename match takes precedence.
	if lang, ok := ld.filenameMap[baseName]; ok {
		return lang, true
	}
	if ext := strings.ToLower(filepath.Ext(baseName)); ext != "" {
		if lang, ok := ld.extensionMap[ext]; ok {
			return lang, true
		}
	}
	return "", false
}

// languageFilter keeps files whose detected language is in a selected set.
type languageFilter struct {
	data  *LoadedLanguageData
	names map[string]bool // lower-cased language names
}

// newLanguageFilter parses a comma-separated list of language names. Unknown names are an
// error so a typo does not silently filter everything out.
func newLanguageFilter(data *LoadedLanguageData, list string) (*languageFilter, error) {
	known := make(map[string]bool, len(data.Langs))
	for name := range data.Langs {
		known[strings.ToLower(name)] = true
	}

	f := &languageFilter{data: data, names: make(map[string]bool)}
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, fmt.Errorf("unknown language %q", name)
		}
		f.names[name] = true
	}
	if len(f.names) == 0 {
		return nil, nil
	}
	return f, nil
}

// Matches reports whether path is written in one of the selected languages.
func (f *languageFilter) Matches(path string) bool {
	lang, ok := f.data.GetLanguageForFile(path)
	return ok && f.names[strings.ToLower(lang)]
}
