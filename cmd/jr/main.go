package jr

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/jsonresource/cli/internal/jrlib"
	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/jsonresource/cli/pkg/jsonapi"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var errorColor = color.New(color.FgRed).SprintfFunc()

func Main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Println("jr, version=" + c.App.Version)
	}
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "root-config",
			Usage: "Root configuration from `FILE`",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Load configuration from `FILE`",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "The api token to use",
			EnvVars: []string{"JR_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "hostname",
			Aliases: []string{"H"},
			Usage:   "The API hostname",
			EnvVars: []string{"JR_HOSTNAME"},
		},
		&cli.StringFlag{
			Name:    "cacert",
			Usage:   "Path to CA certificate bundle file",
			EnvVars: []string{"JR_CACERT"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log every request to stderr",
		},
	}
	includeFlag := &cli.StringFlag{
		Name:    "include",
		Aliases: []string{"i"},
		Usage:   "Comma separated relationships to side-load",
	}
	publicFlag := &cli.BoolFlag{
		Name:  "public",
		Usage: "Do not send the API token",
	}

	app := &cli.App{
		Name:                   "jr",
		Usage:                  "Work with {json:api} resources from the command line",
		Version:                jrlib.Version,
		UseShortOptionHandling: true,
		Flags:                  flags,
		Commands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "jr list [options] TYPE [key=value...]",
				ArgsUsage: "TYPE [FILTER...]",
				Flags: []cli.Flag{
					includeFlag,
					publicFlag,
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Sort by these comma separated fields",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Page size",
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Page offset",
					},
					&cli.StringFlag{
						Name:  "path",
						Usage: "Query this path instead of the type's",
					},
					&cli.BoolFlag{
						Name:    "all",
						Aliases: []string{"a"},
						Usage:   "Follow pagination links until the last page",
					},
					&cli.BoolFlag{
						Name:  "meta",
						Usage: "Print the response's meta object",
					},
				},
				Action: func(c *cli.Context) error {
					return withConnection(c, func(
						ctx context.Context, cfg *config.Config, api jsonapi.Connection,
					) error {
						return jrlib.ListCommand(ctx, cfg, api, os.Stdout,
							jrlib.ListCommandArguments{
								Type:    c.Args().First(),
								Filters: c.Args().Tail(),
								Include: c.String("include"),
								Sort:    c.String("sort"),
								Limit:   c.Int("limit"),
								Offset:  c.Int("offset"),
								Path:    c.String("path"),
								Public:  c.Bool("public"),
								All:     c.Bool("all"),
								Meta:    c.Bool("meta"),
							})
					})
				},
			},
			{
				Name:      "get",
				Usage:     "jr get [options] TYPE ID...",
				ArgsUsage: "TYPE ID...",
				Flags: []cli.Flag{
					includeFlag,
					publicFlag,
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "How many resources to fetch at the same time",
						Value:   4,
					},
				},
				Action: func(c *cli.Context) error {
					return withConnection(c, func(
						ctx context.Context, cfg *config.Config, api jsonapi.Connection,
					) error {
						return jrlib.GetCommand(ctx, cfg, api, os.Stdout,
							jrlib.GetCommandArguments{
								Type:    c.Args().First(),
								Ids:     c.Args().Tail(),
								Include: c.String("include"),
								Public:  c.Bool("public"),
								Workers: c.Int("workers"),
								// Progress would end up mixed with the JSON
								Quiet: !isTerminal(os.Stderr) || !isTerminal(os.Stdout),
							})
					})
				},
			},
			{
				Name:      "create",
				Usage:     "jr create [options] TYPE key=value...",
				ArgsUsage: "TYPE ATTRIBUTE...",
				Flags:     []cli.Flag{includeFlag},
				Action: func(c *cli.Context) error {
					return withConnection(c, func(
						ctx context.Context, cfg *config.Config, api jsonapi.Connection,
					) error {
						return jrlib.CreateCommand(ctx, cfg, api, os.Stdout,
							jrlib.CreateCommandArguments{
								Type:       c.Args().First(),
								Attributes: c.Args().Tail(),
								Include:    c.String("include"),
							})
					})
				},
			},
			{
				Name:      "update",
				Usage:     "jr update [options] TYPE ID key=value...",
				ArgsUsage: "TYPE ID ATTRIBUTE...",
				Flags:     []cli.Flag{includeFlag},
				Action: func(c *cli.Context) error {
					if c.Args().Len() < 2 {
						return cli.Exit(errorColor("Please provide a type and an id"), 1)
					}
					return withConnection(c, func(
						ctx context.Context, cfg *config.Config, api jsonapi.Connection,
					) error {
						return jrlib.UpdateCommand(ctx, cfg, api, os.Stdout,
							jrlib.UpdateCommandArguments{
								Type:       c.Args().Get(0),
								Id:         c.Args().Get(1),
								Attributes: c.Args().Slice()[2:],
								Include:    c.String("include"),
							})
					})
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "jr delete [options] TYPE ID...",
				ArgsUsage: "TYPE ID...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Do not ask for confirmation",
					},
					&cli.BoolFlag{
						Name:  "skip",
						Usage: "Whether to skip on errors",
					},
				},
				Action: func(c *cli.Context) error {
					return withConnection(c, func(
						ctx context.Context, cfg *config.Config, api jsonapi.Connection,
					) error {
						return jrlib.DeleteCommand(ctx, cfg, api, os.Stdout,
							jrlib.DeleteCommandArguments{
								Type:        c.Args().First(),
								Ids:         c.Args().Tail(),
								Force:       c.Bool("force"),
								Skip:        c.Bool("skip"),
								Interactive: isTerminal(os.Stdin),
							})
					})
				},
			},
			{
				Name:  "types",
				Usage: "List the resource types of the local configuration",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return exit(jrlib.TypesCommand(&cfg, os.Stdout))
				},
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "jr types add [options] NAME [key=value...]",
						ArgsUsage: "NAME [FILTER...]",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "root-url",
								Usage: "URL the query path is relative to (default: the host)",
							},
							&cli.StringFlag{
								Name:  "query-path",
								Usage: "Collection path (default: NAME)",
							},
							&cli.StringFlag{
								Name:  "type",
								Usage: "The {json:api} type (default: NAME)",
							},
							&cli.StringFlag{
								Name:  "include",
								Usage: "Relationships side-loaded by default",
							},
							&cli.StringFlag{
								Name:  "sort",
								Usage: "Default sort",
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Default page size",
							},
							&cli.BoolFlag{
								Name:  "public",
								Usage: "Do not send the API token",
							},
						},
						Action: func(c *cli.Context) error {
							if c.Args().Len() < 1 {
								return cli.Exit(errorColor("Please provide a name"), 1)
							}
							cfg, err := loadConfig(c)
							if err != nil {
								return err
							}
							return exit(jrlib.AddTypeCommand(&cfg, os.Stdout,
								jrlib.AddTypeCommandArguments{
									Model: config.Model{
										Name:      c.Args().First(),
										RootURL:   c.String("root-url"),
										QueryPath: c.String("query-path"),
										Type:      c.String("type"),
										Include:   c.String("include"),
										Sort:      c.String("sort"),
										Limit:     c.Int("limit"),
										Public:    c.Bool("public"),
									},
									Filters: c.Args().Tail(),
								}))
						},
					},
					{
						Name:      "remove",
						Aliases:   []string{"rm"},
						Usage:     "jr types remove NAME",
						ArgsUsage: "NAME",
						Action: func(c *cli.Context) error {
							if c.Args().Len() != 1 {
								return cli.Exit(errorColor("Please provide one name"), 1)
							}
							cfg, err := loadConfig(c)
							if err != nil {
								return err
							}
							return exit(jrlib.RemoveTypeCommand(&cfg, os.Stdout,
								c.Args().First()))
						},
					},
				},
			},
		},
		Before: func(c *cli.Context) error {
			level := zerolog.WarnLevel
			if c.Bool("verbose") {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorColor("%s", err))
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.LoadFromPaths(c.String("root-config"), c.String("config"))
	if err != nil {
		return cfg, cli.Exit(
			errorColor("Error loading configuration: %s", err), 1,
		)
	}
	return cfg, nil
}

/*
Loads the configuration, resolves the host and token and builds the
connection, then runs 'do' with a context that is cancelled on Ctrl-C.
*/
func withConnection(
	c *cli.Context,
	do func(ctx context.Context, cfg *config.Config, api jsonapi.Connection) error,
) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	hostname, token, err := jrlib.GetHostAndToken(
		&cfg, c.String("hostname"), c.String("token"),
	)
	if err != nil {
		if err == promptui.ErrInterrupt {
			return cli.Exit("", 1)
		}
		return cli.Exit(errorColor("Error getting API token: %s", err), 1)
	}

	client, err := jrlib.GetClient(c.String("cacert"))
	if err != nil {
		return cli.Exit(
			errorColor("Error getting HTTP client configuration: %s", err), 1,
		)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	api := jrlib.NewConnection(hostname, token, client, logger)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	return exit(do(ctx, &cfg, api))
}

func exit(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(errorColor("%s", strings.TrimSpace(err.Error())), 1)
}

func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
