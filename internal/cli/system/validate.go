package system

import (
	"fmt"

	"github.com/julianstephens/retcal/internal/cli"
	"github.com/julianstephens/retcal/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Goals()
	if err != nil {
		return err
	}

	goals := store.List()
	fmt.Printf("Validating %d goal instances...\n\n", len(goals))

	result := validation.New().ValidateGoals(goals)
	fmt.Println(result.FormatReport())

	// conflicts are reported, not treated as a failure
	return nil
}
