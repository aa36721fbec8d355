package jrlib

import (
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/manifoldco/promptui"
)

// Replaced in tests
var promptToken = func(hostname string) (string, error) {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("API token for %s", hostname),
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return errors.New("token cannot be empty")
			}
			return nil
		},
	}
	return prompt.Run()
}

/*
GetHostAndToken
Function for getting the *final* API server hostname and token from a
combination of environment variables, flags, config files and/or user input.

- 'hostname' and 'token' are overrides the user has maybe provided either as
  flags or as the JR_HOSTNAME / JR_TOKEN environment variables.

The logic for retrieving the final hostname and token is:

1. If a hostname is provided, use it to find a host in the root configuration
   file, either by section name or by rest_hostname:

       [production]
       rest_hostname = https://api.example.com/v1

   With 'production' or 'https://api.example.com/v1' the returned hostname
   will be 'https://api.example.com/v1'. If no host matches, the provided
   value is used as the hostname.

2. If no hostname is provided, use the "active host", the root section named
   by the 'host' field of the local configuration's [main] section.

3. If a token is provided, simply return it. Otherwise take the token of the
   host found in steps 1 or 2. When there is no such host, ask the user for a
   token and save it to the root configuration under a section named after
   the slug of the hostname.
*/
func GetHostAndToken(
	cfg *config.Config, hostname, token string,
) (string, string, error) {
	var restHostname string
	var selectedHost *config.Host
	if hostname != "" {
		host := cfg.FindHost(hostname)
		if host != nil {
			selectedHost = host
			restHostname = host.RestHostname
		} else {
			restHostname = hostname
		}
	} else {
		activeHost := cfg.GetActiveHost()
		if activeHost == nil {
			return "", "", errors.New(
				"no API host configured, pass --hostname or set JR_HOSTNAME",
			)
		}
		selectedHost = activeHost
		restHostname = activeHost.RestHostname
	}

	if token == "" {
		if selectedHost != nil {
			token = selectedHost.Token
		} else {
			var err error
			token, err = promptToken(restHostname)
			if err != nil {
				return "", "", err
			}

			if cfg.Root == nil {
				rootConfigPath, err := config.GetRootPath()
				if err != nil {
					return "", "", err
				}
				cfg.Root = &config.RootConfig{Path: rootConfigPath}
			}
			cfg.Root.Hosts = append(cfg.Root.Hosts, config.Host{
				Name:         slug.Make(restHostname),
				RestHostname: restHostname,
				Token:        token,
			})
			err = cfg.Save()
			if err != nil {
				return "", "", err
			}
		}
	}
	if restHostname == "" || token == "" {
		return "", "", errors.New(
			"could not find an API host and/or token, please inspect your " +
				".jrrc and .jr/config files",
		)
	}
	return restHostname, token, nil
}
