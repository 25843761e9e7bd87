package system

import (
	"fmt"

	"github.com/julianstephens/retcal/internal/cli"
	"github.com/julianstephens/retcal/internal/config"
)

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	settings := ctx.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}
	out, err := settings.YAML()
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n%s", ctx.SettingsPath, out)
	return nil
}

type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(ctx *cli.Context) error {
	fmt.Printf("settings: %s\n", ctx.SettingsPath)
	fmt.Printf("storage:  %s\n", ctx.Store.GetConfigPath())
	return nil
}
