package main

import (
	"context"
	"fmt"
	"os"
)

func (cli *commandLine) importRoster(actorEmail, path string) error {
	ctx := context.Background()

	actor, err := cli.actorFromEmail(ctx, actorEmail)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	res, err := cli.learnSvc.ImportRoster(ctx, actor, f)
	if err != nil {
		return err
	}
	fmt.Printf("roster reconciled: %d imported, %d skipped\n", res.Imported, res.Skipped)
	return nil
}
