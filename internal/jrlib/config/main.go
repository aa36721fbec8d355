/*
Package config
Slightly object-oriented jr configuration package.

Usage:

    import "github.com/jsonresource/cli/internal/jrlib/config"

    cfg, err := config.Load()  // Loads based on current directory
    if err != nil { ... }

    // Lets describe a resource type
    cfg.AddModel(config.Model{
        Name: "widgets",
        RootURL: "https://api.example.com/v1",
        QueryPath: "widgets",
        Type: "widgets",
        Include: "owner",
    })

    cfg.Save()  // Saves changes to disk

    model := cfg.FindModel("widgets")
*/
package config

import (
	"errors"
	"os"
)

type Config struct {
	Root  *RootConfig
	Local *LocalConfig
}

/*
Load jr configuration from the usual paths:

- ~/.jrrc for the root configuration

- .jr/config in the current directory or any parent for the local
  configuration

A missing local configuration leaves Local nil.
*/
func Load() (Config, error) {
	return LoadFromPaths("", "")
}

func LoadFromPaths(rootPath, localPath string) (Config, error) {
	var err error
	var rootConfig *RootConfig
	if rootPath == "" {
		rootConfig, err = loadRootConfig()
	} else {
		rootConfig, err = loadRootConfigFromPath(rootPath)
	}
	if err != nil {
		return Config{}, err
	}

	var localConfig *LocalConfig
	if localPath == "" {
		localConfig, err = loadLocalConfig()
	} else {
		localConfig, err = loadLocalConfigFromPath(localPath)
	}
	if err != nil {
		return Config{}, err
	}

	return Config{Root: rootConfig, Local: localConfig}, nil
}

/*
GetActiveHost
Return the root configuration host named by the 'host' field of the local
configuration's 'main' section, or nil.
*/
func (cfg *Config) GetActiveHost() *Host {
	if cfg.Local == nil || cfg.Local.Host == "" {
		return nil
	}
	return cfg.findHostBy(func(host *Host) bool {
		return host.Name == cfg.Local.Host
	})
}

// Save writes whichever of the two files changed since they were loaded.
func (cfg *Config) Save() error {
	if err := cfg.saveRoot(); err != nil {
		return err
	}
	return cfg.saveLocal()
}

func (cfg *Config) saveRoot() error {
	if cfg.Root == nil {
		return nil
	}
	if cfg.Root.Path == "" {
		rootPath, err := GetRootPath()
		if err != nil {
			return err
		}
		cfg.Root.Path = rootPath
	}
	onDisk, err := loadRootConfigFromPath(cfg.Root.Path)
	if err != nil {
		return err
	}
	cfg.Root.sortHosts()
	if rootConfigsEqual(onDisk, cfg.Root) {
		return nil
	}
	return cfg.Root.save()
}

func (cfg *Config) saveLocal() error {
	if cfg.Local == nil {
		return nil
	}
	if cfg.Local.Path == "" {
		localPath, err := GetLocalPath()
		if err != nil {
			return err
		}
		cfg.Local.Path = localPath
	}
	onDisk, err := loadLocalConfigFromPath(cfg.Local.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	cfg.Local.sortModels()
	if localConfigsEqual(onDisk, cfg.Local) {
		return nil
	}
	return cfg.Local.Save()
}

/*
FindHost
Return the Host that matches 'hostname', first by section name and then by
rest_hostname, or nil.
*/
func (cfg *Config) FindHost(hostname string) *Host {
	if host := cfg.findHostBy(func(host *Host) bool {
		return host.Name == hostname
	}); host != nil {
		return host
	}
	return cfg.findHostBy(func(host *Host) bool {
		return host.RestHostname == hostname
	})
}

// Returned pointers alias the configuration so callers can edit in place
func (cfg *Config) findHostBy(match func(*Host) bool) *Host {
	if cfg.Root == nil {
		return nil
	}
	for i := range cfg.Root.Hosts {
		if match(&cfg.Root.Hosts[i]) {
			return &cfg.Root.Hosts[i]
		}
	}
	return nil
}

/*
FindModel
Return the Model reference configured under 'name', or nil.
*/
func (cfg *Config) FindModel(name string) *Model {
	if cfg.Local == nil {
		return nil
	}
	for i := range cfg.Local.Models {
		model := &cfg.Local.Models[i]
		if model.Name == name {
			return model
		}
	}
	return nil
}

/*
AddModel
Adds a model to the local configuration, replacing one with the same name.
*/
func (cfg *Config) AddModel(model Model) {
	if cfg.Local == nil {
		cfg.Local = &LocalConfig{}
	}
	cfg.RemoveModel(model.Name)
	cfg.Local.Models = append(cfg.Local.Models, model)
}

func (cfg *Config) RemoveModel(name string) {
	if cfg.Local == nil {
		return
	}
	models := []Model{}
	for _, model := range cfg.Local.Models {
		if model.Name == name {
			continue
		}
		models = append(models, model)
	}
	cfg.Local.Models = models
}
