package main

import (
	"context"
)

func (cli *commandLine) exportSubmissions(actorEmail, out string) error {
	ctx := context.Background()

	actor, err := cli.actorFromEmail(ctx, actorEmail)
	if err != nil {
		return err
	}

	w, closeFn, err := outWriter(out)
	if err != nil {
		return err
	}
	defer closeFn()

	return cli.subSvc.ExportCSV(ctx, actor, w)
}
