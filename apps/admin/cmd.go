package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/learner"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/scope"
	"github.com/trezcool/darasa/core/submission"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sql.DB
	admSvc   *admin.Service
	schSvc   *school.Service
	learnSvc *learner.Service
	crsSvc   *course.Service
	subSvc   *submission.Service
	resolver *scope.Resolver
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - apply database migrations (goose commands)")
	fmt.Println("  addsuper -email EMAIL - create a super admin; the password will be prompted next")
	fmt.Println("  importroster -actor EMAIL -file PATH - reconcile a learner roster CSV")
	fmt.Println("  importpackage -actor EMAIL -file PATH - import a course package (IMSCC zip)")
	fmt.Println("  exportroster -actor EMAIL [-out PATH] - export the actor's visible learners as CSV")
	fmt.Println("  exportsubmissions -actor EMAIL [-out PATH] - export the actor's visible submissions as CSV")
}

// actorFromEmail resolves the acting admin for scoped commands.
func (cli *commandLine) actorFromEmail(ctx context.Context, email string) (core.Actor, error) {
	adm, err := cli.admSvc.GetByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return core.Actor{}, err
	}
	return adm.Actor(), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addSuperCmd := flag.NewFlagSet("addsuper", flag.ExitOnError)
	addSuperEmail := addSuperCmd.String("email", "", "The super admin's email. The password will be prompted next.")

	importRosterCmd := flag.NewFlagSet("importroster", flag.ExitOnError)
	importRosterActor := importRosterCmd.String("actor", "", "The acting admin's email.")
	importRosterFile := importRosterCmd.String("file", "", "Path to the roster CSV file.")

	importPackageCmd := flag.NewFlagSet("importpackage", flag.ExitOnError)
	importPackageActor := importPackageCmd.String("actor", "", "The acting admin's email.")
	importPackageFile := importPackageCmd.String("file", "", "Path to the IMSCC package zip.")

	exportRosterCmd := flag.NewFlagSet("exportroster", flag.ExitOnError)
	exportRosterActor := exportRosterCmd.String("actor", "", "The acting admin's email.")
	exportRosterOut := exportRosterCmd.String("out", "", "Output file path. Defaults to stdout.")

	exportSubsCmd := flag.NewFlagSet("exportsubmissions", flag.ExitOnError)
	exportSubsActor := exportSubsCmd.String("actor", "", "The acting admin's email.")
	exportSubsOut := exportSubsCmd.String("out", "", "Output file path. Defaults to stdout.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addsuper":
		if err := addSuperCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addSuperEmail == "" {
			addSuperCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addSuperCmd.Usage()
			return errHelp
		}
		return cli.addSuper(*addSuperEmail, string(pwd))
	case "importroster":
		if err := importRosterCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importRosterActor == "" || *importRosterFile == "" {
			importRosterCmd.Usage()
			return errHelp
		}
		return cli.importRoster(*importRosterActor, *importRosterFile)
	case "importpackage":
		if err := importPackageCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importPackageActor == "" || *importPackageFile == "" {
			importPackageCmd.Usage()
			return errHelp
		}
		return cli.importPackage(*importPackageActor, *importPackageFile)
	case "exportroster":
		if err := exportRosterCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportRosterActor == "" {
			exportRosterCmd.Usage()
			return errHelp
		}
		return cli.exportRoster(*exportRosterActor, *exportRosterOut)
	case "exportsubmissions":
		if err := exportSubsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportSubsActor == "" {
			exportSubsCmd.Usage()
			return errHelp
		}
		return cli.exportSubmissions(*exportSubsActor, *exportSubsOut)
	default:
		cli.printUsage()
		return errHelp
	}
}
