package score

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const stampLayout = "2006-01-02_15-04-05"

var ErrNoSaves = errors.New("no saved scores")

// SaveInfo represents a saved score file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// Library is a directory of timestamped score saves.
type Library struct {
	Dir string
	Now func() time.Time // defaults to time.Now
}

// LibraryDir returns the default scores directory path
func LibraryDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pulsator", "scores"), nil
}

// DefaultLibrary opens the library under LibraryDir.
func DefaultLibrary() (*Library, error) {
	dir, err := LibraryDir()
	if err != nil {
		return nil, err
	}
	return &Library{Dir: dir}, nil
}

// Saves returns the library's saves, newest first
func (l *Library) Saves() ([]SaveInfo, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, ok := parseSaveName(entry.Name()); ok {
			saves = append(saves, info)
		}
	}

	sort.Slice(saves, func(i, j int) bool {
		if saves[i].Timestamp.Equal(saves[j].Timestamp) {
			return saves[i].Filename > saves[j].Filename
		}
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})
	return saves, nil
}

// parseSaveName reads 2024-01-15_14-30-00.json or 2024-01-15_14-30-00_name.json.
func parseSaveName(filename string) (SaveInfo, bool) {
	base, ok := strings.CutSuffix(filename, ".json")
	if !ok || len(base) < len(stampLayout) {
		return SaveInfo{}, false
	}
	ts, err := time.ParseInLocation(stampLayout, base[:len(stampLayout)], time.Local)
	if err != nil {
		return SaveInfo{}, false
	}

	info := SaveInfo{Filename: filename, Timestamp: ts}
	if rest := base[len(stampLayout):]; len(rest) > 1 && rest[0] == '_' {
		info.Name = rest[1:]
	}
	return info, true
}

// Save writes s under a new timestamped filename and returns its path.
func (l *Library) Save(s *Score, name string) (string, error) {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	filename := now().Format(stampLayout)
	if name = sanitizeFilename(name); name != "" {
		filename += "_" + name
	}
	path := filepath.Join(l.Dir, filename+".json")
	if err := s.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// Open loads a save by filename, or the newest one if filename is empty.
func (l *Library) Open(filename string) (*Score, error) {
	if filename == "" {
		saves, err := l.Saves()
		if err != nil {
			return nil, err
		}
		if len(saves) == 0 {
			return nil, ErrNoSaves
		}
		filename = saves[0].Filename
	}
	return Load(filepath.Join(l.Dir, filename))
}

// Delete removes a save
func (l *Library) Delete(filename string) error {
	return os.Remove(filepath.Join(l.Dir, filepath.Base(filename)))
}

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer(
		" ", "-", "/", "-", "\\", "-", ":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	).Replace(name)
	return name
}
