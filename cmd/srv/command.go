package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "radiodraw"
	s.app.Usage = "Ticketing and draw engine for radio stations"
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it serves sessions, draws, jackpots and tickets.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database schema",
			Category:    "Database",
			Description: `Used to create or update the tables of all entities.`,
		},
	}
}
