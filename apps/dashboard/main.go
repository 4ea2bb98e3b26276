package main

import (
	"log"
	"os"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/poll"
	"github.com/trezcool/bosvote/core/session"
	"github.com/trezcool/bosvote/services/bosapi"
	logsvc "github.com/trezcool/bosvote/services/logger"
	sessionstore "github.com/trezcool/bosvote/storage/session"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stderr, "", log.LstdFlags)

	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewStdLogger(std, conf)
	}

	resolver := session.NewResolver(sessionstore.NewFileStore(conf), logger)
	client := bosapi.NewClient(conf, resolver, logger)
	svc := poll.NewService(client, logger)

	cli := &commandLine{
		conf:     conf,
		logger:   logger,
		resolver: resolver,
		svc:      svc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Println(err)
		}
		os.Exit(1)
	}
}
