package main

import (
	"context"
	"fmt"

	"github.com/trezcool/darasa/services/imscc"
)

func (cli *commandLine) importPackage(actorEmail, path string) error {
	ctx := context.Background()

	actor, err := cli.actorFromEmail(ctx, actorEmail)
	if err != nil {
		return err
	}

	m, err := imscc.DecodeFile(path)
	if err != nil {
		return err
	}

	crs, assignments, err := cli.crsSvc.ImportPackage(ctx, actor, m)
	if err != nil {
		return err
	}
	fmt.Printf("imported course %q (id=%d) with %d assignments\n", crs.Title, crs.ID, len(assignments))
	return nil
}
