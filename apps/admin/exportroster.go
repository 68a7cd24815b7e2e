package main

import (
	"context"
	"io"
	"os"
)

// outWriter opens the output file, or stdout when path is empty.
func outWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func (cli *commandLine) exportRoster(actorEmail, out string) error {
	ctx := context.Background()

	actor, err := cli.actorFromEmail(ctx, actorEmail)
	if err != nil {
		return err
	}

	scp, err := cli.resolver.Resolve(ctx, actor)
	if err != nil {
		return err
	}

	w, closeFn, err := outWriter(out)
	if err != nil {
		return err
	}
	defer closeFn()

	return cli.learnSvc.ExportRoster(ctx, w, scp.Learners)
}
