package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/application"
	"github.com/trezcool/mediateam/core/auth"
	"github.com/trezcool/mediateam/core/college"
	"github.com/trezcool/mediateam/core/query"
	"github.com/trezcool/mediateam/core/session"
	apisvc "github.com/trezcool/mediateam/services/api"
	cachesvc "github.com/trezcool/mediateam/services/cache"
	logsvc "github.com/trezcool/mediateam/services/logger"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	conf := core.NewConfig()
	std := log.New(os.Stderr, "ADMIN : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(std, conf)
	defer logger.Close()

	cache, closeCache, err := cachesvc.New(conf.Cache)
	if err != nil {
		logger.Error("setting up cache", err)
		return 1
	}
	defer func() { _ = closeCache() }()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	auth.InitValidators(validate, translator)
	college.InitValidators(validate, translator)

	holder := session.NewFileHolder(conf.TokenFile)
	api := apisvc.NewClient(conf.Backend, apisvc.BearerAuth(apisvc.HolderToken(holder)))
	queries := query.NewClient(cache)

	cli := newCommandLine(
		auth.NewService(api, queries, validate, application.Resource, college.Resource),
		application.NewService(api, queries),
		college.NewService(api, queries, validate),
		holder,
		translator,
		os.Stdin,
		os.Stdout,
	)
	if err := cli.run(os.Args); err != nil {
		switch err {
		case errHelp:
		case errAborted:
			std.Println("aborted")
		default:
			std.Printf("\nerror: %s\n", cli.explain(err))
		}
		return 1
	}
	return 0
}
