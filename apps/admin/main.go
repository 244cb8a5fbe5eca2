package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/grouping"
	emailsvc "github.com/trezcool/darasa/services/email"
	exportsvc "github.com/trezcool/darasa/services/export"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

func main() {
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	groupSvc := grouping.NewService(
		sqlxrepos.NewRosterRepository(db),
		sqlxrepos.NewGroupRepository(db),
		mailSvc,
		exportsvc.NewXLSXExporter(),
		logger,
		validate,
		conf,
	)

	// start CLI
	cli := commandLine{
		conf:     conf,
		db:       db.DB,
		groupSvc: groupSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}
