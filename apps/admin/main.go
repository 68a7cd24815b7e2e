package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/learner"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/scope"
	"github.com/trezcool/darasa/core/submission"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if core.Conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		logger.Fatal(err.Error(), err)
	}
	sqlDB, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
	defer func() { _ = sqlDB.Close() }()
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal(err.Error(), err)
	}
	db := sqlx.NewDb(sqlDB, core.Conf.Database.Engine)

	// notifications
	var notifier core.Notifier
	if core.Conf.Debug {
		notifier = emailsvc.NewConsoleNotifier()
	} else {
		notifier = emailsvc.NewSendgridNotifier(logger)
	}

	// set up repos & services
	cli := commandLine{
		db:       sqlDB,
		admSvc:   admin.NewService(sqlxrepos.NewAdminRepository(db)),
		schSvc:   school.NewService(sqlxrepos.NewSchoolRepository(db)),
		learnSvc: learner.NewService(sqlxrepos.NewLearnerRepository(db)),
		crsSvc:   course.NewService(sqlxrepos.NewCourseRepository(db)),
		subSvc:   submission.NewService(sqlxrepos.NewSubmissionRepository(db), notifier),
		resolver: scope.NewResolver(sqlxrepos.NewScopeRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}
