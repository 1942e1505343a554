package config

import (
	"context"

	"github.com/fatih/color"
)

var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Pink   = color.New(color.FgMagenta).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()

	Ctx = context.Background()
)

const (
	// DefaultTarget is the scan target used when none is configured.
	DefaultTarget = "."

	// ManifestName is the dependency manifest read from every scan target.
	ManifestName = "go.mod"

	FormatGitHub = "github"
	FormatText   = "text"
)
