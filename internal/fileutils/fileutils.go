// Package fileutils provides the file and path helpers shared by the
// commands.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/stmt-clean/internal/models"
)

// CleanSuffix is appended to the base name of cleaned outputs.
const CleanSuffix = "_clean"

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, models.PermissionDirectory); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ListFilesWithExtensions returns the regular files directly inside dirPath
// whose extension matches one of extensions, case-insensitively, sorted by
// name.
func ListFilesWithExtensions(dirPath string, extensions ...string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range extensions {
			if ext == strings.ToLower(want) {
				files = append(files, filepath.Join(dirPath, e.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// CleanOutputPath maps an input statement to its cleaned CSV inside
// outputDir: "in/jan.xlsx" becomes "<outputDir>/jan_clean.csv".
func CleanOutputPath(inputFile, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	return filepath.Join(outputDir, base+CleanSuffix+".csv")
}

// DebugWorkbookPath returns the debug workbook written next to a cleaned
// output file.
func DebugWorkbookPath(outputFile string) string {
	return strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_debug.xlsx"
}
