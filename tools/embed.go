package tools

import (
	"embed"
)

// ConfigFiles holds the investigation playbooks under config/<category>/*.yaml.
//
//go:embed all:config
var ConfigFiles embed.FS
