package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

type LocalConfig struct {
	Host   string
	Models []Model
	Path   string
}

/*
Model is the per-type static configuration of a resource type, stored as one
section of the local configuration file:

	[widgets]
	root_url = https://api.example.com/v1
	query_path = widgets
	type = widgets
	include = owner
	sort = -created
	limit = 50
	public = false
	filter.color = red
*/
type Model struct {
	Name      string
	RootURL   string
	QueryPath string
	Type      string
	Include   string
	Sort      string
	Limit     int
	Public    bool
	Filters   map[string]string
}

const filterPrefix = "filter."

func loadLocalConfig() (*LocalConfig, error) {
	localPath, err := findLocalPath("")
	if err != nil {
		return nil, err
	}
	if localPath == "" {
		return nil, nil
	}
	return loadLocalConfigFromPath(localPath)
}

func loadLocalConfigFromPath(path string) (*LocalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"local configuration file '%s' does not exist: %w", path, err,
			)
		}
		return nil, err
	}
	localCfg, err := loadLocalConfigFromBytes(data)
	if err != nil {
		return nil, err
	}
	localCfg.Path = path
	return localCfg, nil
}

func loadLocalConfigFromBytes(data []byte) (*LocalConfig, error) {
	var result LocalConfig

	cfg, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	if main, err := cfg.GetSection("main"); err == nil {
		result.Host = main.Key("host").String()
	}

	for _, section := range cfg.Sections() {
		if section.Name() == "main" || section.Name() == ini.DefaultSection {
			continue
		}

		model := Model{
			Name:      section.Name(),
			RootURL:   section.Key("root_url").String(),
			QueryPath: section.Key("query_path").String(),
			Type:      section.Key("type").String(),
			Include:   section.Key("include").String(),
			Sort:      section.Key("sort").String(),
			Filters:   make(map[string]string),
		}

		// .Key returns 0 for missing keys, so check first
		if section.HasKey("limit") {
			limit, err := section.Key("limit").Int()
			if err != nil || limit < 0 {
				return nil, fmt.Errorf(
					"invalid limit '%s' for '%s'",
					section.Key("limit").String(), section.Name(),
				)
			}
			model.Limit = limit
		}
		if section.HasKey("public") {
			public, err := section.Key("public").Bool()
			if err != nil {
				return nil, fmt.Errorf(
					"invalid public flag '%s' for '%s'",
					section.Key("public").String(), section.Name(),
				)
			}
			model.Public = public
		}

		for _, key := range section.Keys() {
			if !strings.HasPrefix(key.Name(), filterPrefix) {
				continue
			}
			model.Filters[key.Name()[len(filterPrefix):]] = key.String()
		}

		result.Models = append(result.Models, model)
	}

	result.sortModels()

	return &result, nil
}

func (localCfg LocalConfig) Save() error {
	return localCfg.saveToPath(localCfg.Path)
}

func (localCfg LocalConfig) saveToPath(path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(path,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		0644)
	if err != nil {
		return err
	}
	defer file.Close()
	return localCfg.saveToWriter(file)
}

func (localCfg LocalConfig) saveToWriter(file io.Writer) error {
	cfg := ini.Empty(ini.LoadOptions{})

	if localCfg.Host != "" {
		main, err := cfg.NewSection("main")
		if err != nil {
			return err
		}
		_, err = main.NewKey("host", localCfg.Host)
		if err != nil {
			return err
		}
	}

	for _, model := range localCfg.Models {
		section, err := cfg.NewSection(model.Name)
		if err != nil {
			return err
		}

		values := []struct{ key, value string }{
			{"root_url", model.RootURL},
			{"query_path", model.QueryPath},
			{"type", model.Type},
			{"include", model.Include},
			{"sort", model.Sort},
		}
		if model.Limit != 0 {
			values = append(values,
				struct{ key, value string }{"limit", strconv.Itoa(model.Limit)})
		}
		if model.Public {
			values = append(values,
				struct{ key, value string }{"public", "true"})
		}
		for _, item := range values {
			if item.value == "" {
				continue
			}
			_, err := section.NewKey(item.key, item.value)
			if err != nil {
				return err
			}
		}

		keys := make([]string, 0, len(model.Filters))
		for key := range model.Filters {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			_, err = section.NewKey(filterPrefix+key, model.Filters[key])
			if err != nil {
				return err
			}
		}
	}

	_, err := cfg.WriteTo(file)
	return err
}

func (localCfg *LocalConfig) sortModels() {
	sort.Slice(localCfg.Models, func(i, j int) bool {
		return strings.Compare(
			localCfg.Models[i].Name, localCfg.Models[j].Name,
		) == -1
	})
}

func localConfigsEqual(left, right *LocalConfig) bool {
	if left == nil || right == nil {
		return left == right
	}
	if left.Host != right.Host {
		return false
	}
	if len(left.Models) != len(right.Models) {
		return false
	}
	for i, leftModel := range left.Models {
		rightModel := right.Models[i]
		if leftModel.Name != rightModel.Name ||
			leftModel.RootURL != rightModel.RootURL ||
			leftModel.QueryPath != rightModel.QueryPath ||
			leftModel.Type != rightModel.Type ||
			leftModel.Include != rightModel.Include ||
			leftModel.Sort != rightModel.Sort ||
			leftModel.Limit != rightModel.Limit ||
			leftModel.Public != rightModel.Public {
			return false
		}
		if len(leftModel.Filters) != len(rightModel.Filters) {
			return false
		}
		for key, leftValue := range leftModel.Filters {
			rightValue, exists := rightModel.Filters[key]
			if !exists || leftValue != rightValue {
				return false
			}
		}
	}
	return true
}

// Walks up from 'path' (or the working directory) looking for .jr/config
func findLocalPath(path string) (string, error) {
	curDir := path
	if path == "" {
		dir, err := os.Getwd()
		if err != nil {
			return "", err
		}
		curDir = dir
	}

	fp := filepath.Join(curDir, ".jr", "config")
	if _, err := os.Stat(fp); os.IsNotExist(err) {
		parent := filepath.Dir(curDir)
		if parent != curDir && parent != "." {
			return findLocalPath(parent)
		}
		return "", nil
	}
	return fp, nil
}

// GetLocalPath returns where a new local configuration would be written.
func GetLocalPath() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".jr", "config"), nil
}
