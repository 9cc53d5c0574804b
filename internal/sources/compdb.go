package sources

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// CompileCommandsFile is the conventional name of a clang compilation database.
const CompileCommandsFile = "compile_commands.json"

// LoadCompileCommands returns the translation units listed in a compilation database,
// in file order without duplicates. Relative entries are resolved against the
// entry's "directory", or the database's own directory when that is missing.
func LoadCompileCommands(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, &InvalidCompileDatabaseError{Path: path, Reason: "not valid JSON"}
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, &InvalidCompileDatabaseError{Path: path, Reason: "expected a JSON array of entries"}
	}

	dbDir := filepath.Dir(path)
	seen := make(map[string]struct{})
	var files []string
	var badEntry *InvalidCompileDatabaseError

	root.ForEach(func(_, entry gjson.Result) bool {
		file := entry.Get("file").String()
		if file == "" {
			badEntry = &InvalidCompileDatabaseError{Path: path, Reason: "entry without a \"file\" field"}
			return false
		}
		if !filepath.IsAbs(file) {
			dir := entry.Get("directory").String()
			if dir == "" {
				dir = dbDir
			} else if !filepath.IsAbs(dir) {
				dir = filepath.Join(dbDir, dir)
			}
			file = filepath.Join(dir, file)
		}
		if _, ok := seen[file]; !ok {
			seen[file] = struct{}{}
			files = append(files, file)
		}
		return true
	})
	if badEntry != nil {
		return nil, badEntry
	}

	return files, nil
}
