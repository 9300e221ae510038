package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/firstchoicebank/corebank"
	"github.com/firstchoicebank/corebank/config"
	"github.com/firstchoicebank/corebank/database"
	"github.com/firstchoicebank/corebank/internal/notification"
)

// CLI wraps the root cobra command.
type CLI struct {
	cmd *cobra.Command
}

// corebankInstance holds the engine and its configuration for the lifetime of
// one CLI invocation.
type corebankInstance struct {
	corebank *corebank.Corebank
	cnf      *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and initializes the engine before any command runs.
func preRun(app *corebankInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("corebank.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		engine, err := setupCorebank(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.corebank = engine
		app.cnf = cnf

		return nil
	}
}

func setupCorebank(cfg *config.Configuration) (*corebank.Corebank, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	engine, err := corebank.NewCorebank(db)
	if err != nil {
		return nil, fmt.Errorf("error creating corebank: %v", err)
	}
	return engine, nil
}

// NewCLI builds the command tree: server and migration commands hang off a
// shared root with a persistent config flag.
func NewCLI() *CLI {
	var configFile string
	b := &corebankInstance{}

	var rootCmd = &cobra.Command{
		Use:   "corebank",
		Short: "FirstChoice core banking service",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./corebank.json", "Configuration file for corebank")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &CLI{cmd: rootCmd}
}

func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
