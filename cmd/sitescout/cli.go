package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/sitescout/internal/config"
	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/ops"
	"github.com/hpungsan/sitescout/internal/prompt"
	"github.com/hpungsan/sitescout/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(orch *ops.Orchestrator, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "sitescout",
		Usage:   "Ask questions about any web page",
		Version: Version,
		Commands: []*cli.Command{
			analyzeCmd(orch),
			askCmd(orch),
			refreshCmd(orch),
			statusCmd(orch),
			cancelCmd(orch),
			sitesCmd(orch),
			showCmd(orch),
			deleteCmd(orch),
			clearHistoryCmd(orch),
			purgeCmd(orch),
			setKeyCmd(orch),
			getKeyCmd(orch),
			setRoleCmd(orch),
			getRoleCmd(orch),
			webCmd(orch, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// analyzeCmd creates the analyze command. Runs in the foreground: the
// command returns once the analysis conversation has settled.
func analyzeCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze a web page (reuses a cached analysis when one exists)",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "Audience focus: developer|business|researcher|general|auto"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("url argument is required"))
			}

			output, err := orch.EnsureSession(c.Context, ops.EnsureSessionInput{
				URL:  c.Args().First(),
				Role: c.String("role"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// askCmd creates the ask command.
func askCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask a question about an analyzed page",
		ArgsUsage: "<url> <question>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("url and question arguments are required"))
			}

			question := c.Args().Get(1)
			output, err := orch.AnswerQuestion(c.Context, ops.AnswerInput{
				URL:      c.Args().First(),
				Question: question,
			})
			if err != nil {
				// Every fallback tier failed; degrade gracefully instead
				// of dumping a transport error on the user.
				if errors.Is(err, errors.ErrAnswerExhausted) {
					return outputJSON(map[string]any{
						"answer":   prompt.HelpfulFallback(question),
						"degraded": true,
					})
				}
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// refreshCmd creates the refresh command.
func refreshCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "refresh",
		Usage:     "Re-run the analysis on a page's existing session",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "Audience focus: developer|business|researcher|general|auto"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("url argument is required"))
			}

			output, err := orch.RefreshAnalysis(c.Context, ops.RefreshAnalysisInput{
				URL:  c.Args().First(),
				Role: c.String("role"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the analysis status for a page",
		ArgsUsage: "<url>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("url argument is required"))
			}

			output, err := orch.AnalysisStatus(ops.StatusInput{URL: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// cancelCmd creates the cancel command.
func cancelCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "cancel",
		Usage:     "Cancel an in-flight analysis",
		ArgsUsage: "<url>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("url argument is required"))
			}

			output, err := orch.CancelAnalysis(ops.CancelInput{URL: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// sitesCmd creates the sites command.
func sitesCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:  "sites",
		Usage: "List analyzed sites, newest first",
		Action: func(c *cli.Context) error {
			sites, err := orch.ListSites()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"sites": sites, "count": len(sites)})
		},
	}
}

// showCmd creates the show command.
func showCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the full record for a page, transcript included",
		ArgsUsage: "<url-or-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "remote", Usage: "Also fetch upstream session metadata"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("url or site id argument is required"))
			}

			rec, err := orch.GetRecord(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			if !c.Bool("remote") {
				return outputJSON(rec)
			}

			info, err := orch.RemoteChatInfo(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"record": rec, "remote": info})
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a page's record and transcript",
		ArgsUsage: "<url-or-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("url or site id argument is required"))
			}

			if err := orch.DeleteSite(c.Args().First()); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"deleted": true})
		},
	}
}

// clearHistoryCmd creates the clear-history command.
func clearHistoryCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "clear-history",
		Usage:     "Empty a page's transcript but keep its session",
		ArgsUsage: "<url-or-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("url or site id argument is required"))
			}

			if err := orch.ClearHistory(c.Args().First()); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"cleared": true})
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Delete every site record (settings are kept)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Usage: "Skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return outputError(errors.NewInvalidRequest("purge deletes all site records; pass --yes to confirm"))
			}

			n, err := orch.Purge()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"purged": n})
		},
	}
}

// setKeyCmd creates the set-key command.
func setKeyCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "set-key",
		Usage:     "Store the agent service credential",
		ArgsUsage: "<key>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "validate", Usage: "Probe the service before storing"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("key argument is required"))
			}

			err := orch.SetAPIKey(c.Context, ops.SetAPIKeyInput{
				Key:      c.Args().First(),
				Validate: c.Bool("validate"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"stored": true, "validated": c.Bool("validate")})
		},
	}
}

// getKeyCmd creates the get-key command.
func getKeyCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:  "get-key",
		Usage: "Show whether a credential is stored (masked)",
		Action: func(c *cli.Context) error {
			set, masked, err := orch.APIKeyStatus()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"set": set, "key": masked})
		},
	}
}

// setRoleCmd creates the set-role command.
func setRoleCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:      "set-role",
		Usage:     "Store the audience role used for analysis prompts",
		ArgsUsage: "<developer|business|researcher|general|auto|default>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("role argument is required"))
			}

			if err := orch.SetUserRole(c.Args().First()); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"role": c.Args().First()})
		},
	}
}

// getRoleCmd creates the get-role command.
func getRoleCmd(orch *ops.Orchestrator) *cli.Command {
	return &cli.Command{
		Name:  "get-role",
		Usage: "Show the stored audience role",
		Action: func(c *cli.Context) error {
			role, err := orch.UserRole()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"role": role})
		},
	}
}

// webCmd creates the web command.
func webCmd(orch *ops.Orchestrator, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the transcript viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8321, Usage: "Port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(orch, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.ScoutError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
