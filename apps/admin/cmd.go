package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/trezcool/cafeteria/core/dish"
	"github.com/trezcool/cafeteria/core/order"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db          *sql.DB
	dishSvc     *dish.Service
	orderSvc    *order.Service
	defaultSize int
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, down, status, version..)")
	fmt.Println("  seedmenu -file PATH - add the dishes of a YAML menu file to the catalog")
	fmt.Println("  seedmenu -remote [-n COUNT] - generate COUNT dishes with the menu API and add them to the catalog")
	fmt.Println("  deliver -id ORDER_ID - mark an order as delivered")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seedmenu", flag.ContinueOnError)
	seedFile := seedCmd.String("file", "", "Path to a YAML menu file (`dishes: [...]`).")
	seedRemote := seedCmd.Bool("remote", false, "Generate the dishes with the menu API.")
	seedCount := seedCmd.Int("n", cli.defaultSize, "Number of dishes to generate (with -remote).")

	deliverCmd := flag.NewFlagSet("deliver", flag.ContinueOnError)
	deliverID := deliverCmd.String("id", "", "The order ID.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seedmenu":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if (*seedFile == "") == !*seedRemote { // exactly one source
			seedCmd.Usage()
			return errHelp
		}
		var (
			count int
			err   error
		)
		if *seedRemote {
			count, err = cli.seedRemote(*seedCount)
		} else {
			count, err = cli.seedFile(*seedFile)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%d dishes added\n", count)
		return nil
	case "deliver":
		if err := deliverCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deliverID == "" {
			deliverCmd.Usage()
			return errHelp
		}
		return cli.deliver(*deliverID)
	default:
		cli.printUsage()
		return errHelp
	}
}
