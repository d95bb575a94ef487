package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/sammko/tcpst2/device"
	"github.com/sammko/tcpst2/log"
	"github.com/sammko/tcpst2/probe"
	"github.com/sammko/tcpst2/provision"
)

var (
	Version   = "unknown"
	BuildDate = "unknown"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   defaultConfigFile,
			Usage:   "path to the config file",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "tun device name",
		},
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "IPv4 address in CIDR notation",
		},
		&cli.IntFlag{
			Name:  "mtu",
			Usage: "device MTU (0 keeps the kernel default)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
	}
}

func main() {
	app := &cli.App{
		Name:    "tcpst2",
		Usage:   "provision the tun-st device for userspace TCP experiments",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildDate),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			upCommand(),
			downCommand(),
			statusCommand(),
			probeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

// loadSettings merges the config file with command line overrides.
func loadSettings(c *cli.Context) (*Config, error) {
	cfg, err := parseConfig(c.String("config"), c.IsSet("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("name") {
		cfg.Name = c.String("name")
	}
	if c.IsSet("addr") {
		cfg.Address = c.String("addr")
	}
	if c.IsSet("mtu") {
		cfg.MTU = c.Int("mtu")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	log.SetLevel(cfg.logLevel())
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func upCommand() *cli.Command {
	return &cli.Command{
		Name:  "up",
		Usage: "create the tun device, assign its address and bring it up",
		Action: func(c *cli.Context) error {
			cfg, err := loadSettings(c)
			if err != nil {
				return err
			}
			if err := provision.RequireRoot(); err != nil {
				return err
			}
			inv, err := provision.ResolveInvoker()
			if err != nil {
				return err
			}
			log.SetRun(uuid.NewString())
			st, err := provision.New().Up(inv, cfg.settings())
			if err != nil {
				return err
			}
			fmt.Println(st)
			return nil
		},
	}
}

func downCommand() *cli.Command {
	return &cli.Command{
		Name:  "down",
		Usage: "delete the tun device",
		Action: func(c *cli.Context) error {
			cfg, err := loadSettings(c)
			if err != nil {
				return err
			}
			if err := provision.RequireRoot(); err != nil {
				return err
			}
			log.SetRun(uuid.NewString())
			return provision.New().Down(cfg.name())
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "print the current state of the tun device",
		Action: func(c *cli.Context) error {
			cfg, err := loadSettings(c)
			if err != nil {
				return err
			}
			st, err := provision.New().Status(cfg.name())
			if err != nil {
				return err
			}
			fmt.Println(st)
			return nil
		},
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "attach to the tun device and answer ICMP echo requests",
		Action: func(c *cli.Context) error {
			cfg, err := loadSettings(c)
			if err != nil {
				return err
			}
			f, err := device.Open(cfg.name())
			if err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Infof("shutting down")
				_ = f.Close()
			}()

			log.Infof("answering ICMP echo on %s, ping an address in its subnet to verify the path", cfg.name())
			return probe.New(f).Run()
		},
	}
}
