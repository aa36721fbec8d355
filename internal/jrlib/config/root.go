package config

import (
	"bytes"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sort"

	"gopkg.in/ini.v1"
)

const rootFileName = ".jrrc"

// RootConfig is the per-user list of API hosts and their tokens.
type RootConfig struct {
	Hosts []Host
	Path  string
}

/*
Host is one section of the root configuration:

	[production]
	rest_hostname = https://api.example.com/v1
	token         = XXX
*/
type Host struct {
	Name         string `ini:"-"`
	RestHostname string `ini:"rest_hostname,omitempty"`
	Token        string `ini:"token,omitempty"`
}

func loadRootConfig() (*RootConfig, error) {
	rootPath, err := GetRootPath()
	if err != nil {
		return nil, err
	}
	return loadRootConfigFromPath(rootPath)
}

// A missing file is an empty configuration that will be created on save
func loadRootConfigFromPath(path string) (*RootConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &RootConfig{Path: path}, nil
	} else if err != nil {
		return nil, err
	}
	rootCfg, err := loadRootConfigFromBytes(data)
	if err != nil {
		return nil, err
	}
	rootCfg.Path = path
	return rootCfg, nil
}

func loadRootConfigFromBytes(data []byte) (*RootConfig, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	var result RootConfig
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		host := Host{Name: section.Name()}
		if err := section.MapTo(&host); err != nil {
			return nil, err
		}
		result.Hosts = append(result.Hosts, host)
	}
	result.sortHosts()
	return &result, nil
}

func (rootCfg *RootConfig) sortHosts() {
	sort.SliceStable(rootCfg.Hosts, func(i, j int) bool {
		return rootCfg.Hosts[i].Name < rootCfg.Hosts[j].Name
	})
}

func (rootCfg *RootConfig) save() error {
	var buffer bytes.Buffer
	if err := rootCfg.saveToWriter(&buffer); err != nil {
		return err
	}
	// Tokens live here
	return os.WriteFile(rootCfg.Path, buffer.Bytes(), 0600)
}

func (rootCfg *RootConfig) saveToWriter(file io.Writer) error {
	cfg := ini.Empty()
	for i := range rootCfg.Hosts {
		host := &rootCfg.Hosts[i]
		section, err := cfg.NewSection(host.Name)
		if err != nil {
			return err
		}
		if err := section.ReflectFrom(host); err != nil {
			return err
		}
	}
	_, err := cfg.WriteTo(file)
	return err
}

func rootConfigsEqual(left, right *RootConfig) bool {
	if left == nil || right == nil {
		return left == right
	}
	if len(left.Hosts) != len(right.Hosts) {
		return false
	}
	for i, host := range left.Hosts {
		if host != right.Hosts[i] {
			return false
		}
	}
	return true
}

// GetRootPath returns ~/.jrrc, honoring $HOME.
func GetRootPath() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, rootFileName), nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, rootFileName), nil
}
