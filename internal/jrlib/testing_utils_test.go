package jrlib

import (
	"github.com/fatih/color"
	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/jsonresource/cli/pkg/jsonapi"
)

func init() {
	color.NoColor = true
}

const defaultParams = "page%5Blimit%5D=20&page%5Boffset%5D=0"

func getTestConnection(mockData jsonapi.MockData) jsonapi.Connection {
	api := jsonapi.GetTestConnection(mockData)
	api.Token = "secret"
	return api
}

func getTestConfig(models ...config.Model) *config.Config {
	return &config.Config{
		Root:  &config.RootConfig{},
		Local: &config.LocalConfig{Models: models},
	}
}

func singleResponse(text string) *jsonapi.MockEndpoint {
	return &jsonapi.MockEndpoint{Requests: []jsonapi.MockRequest{{
		Response: jsonapi.MockResponse{Text: text},
	}}}
}
