package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/ops"
	"github.com/hpungsan/traction/internal/taxonomy"
	"github.com/hpungsan/traction/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, taxo *taxonomy.Store, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "traction",
		Usage:   "Social post tracker and insights engine",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db, taxo, baseDir),
			showCmd(db),
			deleteCmd(db),
			listCmd(db),
			insightsCmd(db, cfg, baseDir),
			weeklyCmd(db, baseDir),
			scorecardCmd(db, baseDir),
			exportCmd(db, cfg, baseDir),
			suggestCmd(),
			taxonomyCmd(taxo),
			webCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(db *sql.DB, taxo *taxonomy.Store, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Record a post (notes may be piped via stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Platform (defaults to the last one used)"},
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Posting date YYYY-MM-DD (default: today)"},
			&cli.StringFlag{Name: "campaign", Aliases: []string{"c"}, Usage: "Campaign tag (defaults to the last one used)"},
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Caption style (defaults to the last one used)"},
			&cli.Int64Flag{Name: "reach", Usage: "Reach / views"},
			&cli.Int64Flag{Name: "likes", Usage: "Likes"},
			&cli.Int64Flag{Name: "follows", Usage: "Follows gained"},
			&cli.Int64Flag{Name: "captures", Usage: "Email captures"},
			&cli.StringFlag{Name: "notes", Usage: "Free-form notes (markdown)"},
			&cli.StringFlag{Name: "keywords", Aliases: []string{"k"}, Usage: "Comma-separated keywords"},
		},
		Action: func(c *cli.Context) error {
			session, err := ops.LoadSession(baseDir)
			if err != nil {
				return outputError(err)
			}

			platform := c.String("platform")
			if platform == "" {
				platform = session.LastPlatform
			}
			campaign := c.String("campaign")
			if campaign == "" {
				campaign = session.LastCampaign
			}
			style := c.String("style")
			if style == "" {
				style = session.LastCaptionStyle
			}

			input := ops.AddPostInput{
				Platform:      platform,
				Campaign:      campaign,
				CaptionStyle:  style,
				Reach:         c.Int64("reach"),
				Likes:         c.Int64("likes"),
				FollowsGained: c.Int64("follows"),
				EmailCaptures: c.Int64("captures"),
				Notes:         c.String("notes"),
			}

			if d := c.String("date"); d != "" {
				input.PostedAt, err = ops.ParseDate(d)
				if err != nil {
					return outputError(err)
				}
			}
			if kw := c.String("keywords"); kw != "" {
				input.Keywords = parseList(kw)
			}

			// Notes piped via stdin override the flag
			if stdinHasData() {
				notes, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if notes != "" {
					input.Notes = notes
				}
			}

			output, err := ops.AddPost(db, taxo, input)
			if err != nil {
				return outputError(err)
			}

			session.LastPlatform = strings.ToLower(strings.TrimSpace(platform))
			session.LastCampaign = taxonomy.Normalize(campaign)
			session.LastCaptionStyle = taxonomy.Normalize(style)
			if err := ops.SaveSession(baseDir, session); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save session: %v\n", err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a post by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(db, ops.FetchInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a post so it stops counting in reports",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List recent posts, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// insightsCmd creates the insights command.
func insightsCmd(db *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "insights",
		Usage: "Ranked report over a date window, grouped by a dimension",
		Flags: insightsFlags(),
		Action: func(c *cli.Context) error {
			input, err := insightsInputFromFlags(c)
			if err != nil {
				return outputError(err)
			}

			if err := applyPendingWindow(baseDir, &input); err != nil {
				return outputError(err)
			}

			output, err := ops.Insights(db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// weeklyCmd creates the weekly command.
func weeklyCmd(db *sql.DB, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "weekly",
		Usage: "Full grouped table for one Monday-anchored week",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "week", Aliases: []string{"w"}, Usage: "Any date in the week YYYY-MM-DD (default: last full week)"},
			&cli.StringFlag{Name: "group-by", Aliases: []string{"g"}, Value: "platform", Usage: "Grouping: platform|campaign|caption_style"},
			&cli.StringFlag{Name: "sort-by", Aliases: []string{"s"}, Value: "reach", Usage: "Sort key: metric or rate column"},
			&cli.StringFlag{Name: "platforms", Usage: "Comma-separated platform filter"},
			&cli.StringFlag{Name: "campaigns", Usage: "Comma-separated campaign filter"},
			&cli.StringFlag{Name: "styles", Usage: "Comma-separated caption-style filter"},
			&cli.BoolFlag{Name: "handoff", Usage: "Hand this week's window to the next insights/scorecard run"},
		},
		Action: func(c *cli.Context) error {
			input := ops.WeeklyInput{
				Platforms:     parseList(c.String("platforms")),
				Campaigns:     parseList(c.String("campaigns")),
				CaptionStyles: parseList(c.String("styles")),
				GroupBy:       c.String("group-by"),
				SortBy:        c.String("sort-by"),
			}

			if w := c.String("week"); w != "" {
				anchor, err := ops.ParseDate(w)
				if err != nil {
					return outputError(err)
				}
				input.WeekStart = anchor
			}

			output, err := ops.Weekly(db, input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("handoff") {
				session, err := ops.LoadSession(baseDir)
				if err != nil {
					return outputError(err)
				}
				session.PendingStart = output.WeekStart
				session.PendingEnd = output.WeekEnd
				session.PendingCampaigns = input.Campaigns
				if err := ops.SaveSession(baseDir, session); err != nil {
					return outputError(err)
				}
			}

			return outputJSON(output)
		},
	}
}

// scorecardCmd creates the scorecard command.
func scorecardCmd(db *sql.DB, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "scorecard",
		Usage: "Window totals, overall rates, and the weekly trend series",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Usage: "Window start YYYY-MM-DD"},
			&cli.StringFlag{Name: "end", Usage: "Window end YYYY-MM-DD (default window: last full week)"},
			&cli.StringFlag{Name: "platforms", Usage: "Comma-separated platform filter"},
			&cli.StringFlag{Name: "campaigns", Usage: "Comma-separated campaign filter"},
			&cli.StringFlag{Name: "styles", Usage: "Comma-separated caption-style filter"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ScorecardInput{
				Platforms:     parseList(c.String("platforms")),
				Campaigns:     parseList(c.String("campaigns")),
				CaptionStyles: parseList(c.String("styles")),
			}

			var err error
			if s := c.String("start"); s != "" {
				if input.Start, err = ops.ParseDate(s); err != nil {
					return outputError(err)
				}
			}
			if e := c.String("end"); e != "" {
				if input.End, err = ops.ParseDate(e); err != nil {
					return outputError(err)
				}
			}

			// A weekly handoff fills the window when none was given
			if input.Start.IsZero() && input.End.IsZero() {
				session, err := ops.LoadSession(baseDir)
				if err != nil {
					return outputError(err)
				}
				if session.HasPendingWindow() {
					start, end, campaigns := session.TakePendingWindow()
					if input.Start, err = ops.ParseDate(start); err == nil {
						input.End, err = ops.ParseDate(end)
					}
					if err != nil {
						return outputError(err)
					}
					if len(input.Campaigns) == 0 {
						input.Campaigns = campaigns
					}
					if err := ops.SaveSession(baseDir, session); err != nil {
						return outputError(err)
					}
				}
			}

			output, err := ops.Scorecard(db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	flags := insightsFlags()
	flags = append(flags, &cli.StringFlag{Name: "path", Usage: "Destination CSV path (default: <base>/exports/insights-<dimension>-<timestamp>.csv)"})

	return &cli.Command{
		Name:  "export",
		Usage: "Run an insights report and write it to CSV",
		Flags: flags,
		Action: func(c *cli.Context) error {
			insights, err := insightsInputFromFlags(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.ExportInsights(db, cfg, baseDir, ops.ExportInsightsInput{
				Insights: insights,
				Path:     c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// suggestCmd creates the suggest command.
func suggestCmd() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest keywords from caption text (argument or stdin)",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 0, Usage: "Maximum candidates (default 15)"},
		},
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if text == "" && stdinHasData() {
				stdin, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				text = stdin
			}

			output := ops.SuggestKeywords(ops.SuggestKeywordsInput{
				Text:  text,
				Limit: c.Int("limit"),
			})
			return outputJSON(output)
		},
	}
}

// taxonomyCmd creates the taxonomy command with its subcommands.
func taxonomyCmd(taxo *taxonomy.Store) *cli.Command {
	return &cli.Command{
		Name:  "taxonomy",
		Usage: "Inspect and extend the campaign/caption-style vocabularies",
		Subcommands: []*cli.Command{
			{
				Name:  "values",
				Usage: "List the values of one vocabulary group",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Value: taxonomy.GroupCampaign, Usage: "Group: campaign|caption_style"},
				},
				Action: func(c *cli.Context) error {
					group := c.String("group")
					values, err := taxo.Values(group)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{
						"group":  group,
						"values": values,
					})
				},
			},
			{
				Name:      "add",
				Usage:     "Add a value to a vocabulary group (idempotent)",
				ArgsUsage: "<value>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Value: taxonomy.GroupCampaign, Usage: "Group: campaign|caption_style"},
				},
				Action: func(c *cli.Context) error {
					group := c.String("group")
					value, added, err := taxo.Upsert(group, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{
						"group": group,
						"value": value,
						"added": added,
					})
				},
			},
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			fmt.Fprintf(os.Stderr, "serving on http://%s\n", srv.Addr)
			if err := web.Run(srv); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// insightsFlags returns the flag set shared by insights and export.
func insightsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "dimension", Aliases: []string{"d"}, Value: "platform", Usage: "Grouping: platform|campaign|caption_style|keyword"},
		&cli.StringFlag{Name: "start", Usage: "Window start YYYY-MM-DD"},
		&cli.StringFlag{Name: "end", Usage: "Window end YYYY-MM-DD (default window: last full week)"},
		&cli.StringFlag{Name: "platforms", Usage: "Comma-separated platform filter"},
		&cli.StringFlag{Name: "campaigns", Usage: "Comma-separated campaign filter"},
		&cli.StringFlag{Name: "styles", Usage: "Comma-separated caption-style filter"},
		&cli.StringFlag{Name: "rank-by", Aliases: []string{"r"}, Usage: "Ranking key (default: success_score)"},
		&cli.Int64Flag{Name: "min-reach", Usage: "Minimum summed reach per group"},
		&cli.IntFlag{Name: "top-n", Aliases: []string{"n"}, Usage: "Number of groups to show"},
		&cli.Float64Flag{Name: "weight-follow", Usage: "Composite weight for follow rate"},
		&cli.Float64Flag{Name: "weight-capture", Usage: "Composite weight for capture rate"},
		&cli.Float64Flag{Name: "weight-like", Usage: "Composite weight for like rate"},
	}
}

// insightsInputFromFlags builds an InsightsInput from the shared flags.
func insightsInputFromFlags(c *cli.Context) (ops.InsightsInput, error) {
	input := ops.InsightsInput{
		Platforms:     parseList(c.String("platforms")),
		Campaigns:     parseList(c.String("campaigns")),
		CaptionStyles: parseList(c.String("styles")),
		Dimension:     c.String("dimension"),
		RankBy:        c.String("rank-by"),
		TopN:          c.Int("top-n"),
	}

	var err error
	if s := c.String("start"); s != "" {
		if input.Start, err = ops.ParseDate(s); err != nil {
			return input, err
		}
	}
	if e := c.String("end"); e != "" {
		if input.End, err = ops.ParseDate(e); err != nil {
			return input, err
		}
	}

	if c.IsSet("min-reach") {
		minReach := c.Int64("min-reach")
		input.MinReach = &minReach
	}

	if c.IsSet("weight-follow") || c.IsSet("weight-capture") || c.IsSet("weight-like") {
		input.Weights = &analytics.Weights{
			Follow:  c.Float64("weight-follow"),
			Capture: c.Float64("weight-capture"),
			Like:    c.Float64("weight-like"),
		}
	}

	return input, nil
}

// applyPendingWindow fills an empty report window from a weekly handoff,
// consuming it.
func applyPendingWindow(baseDir string, input *ops.InsightsInput) error {
	if !input.Start.IsZero() || !input.End.IsZero() {
		return nil
	}

	session, err := ops.LoadSession(baseDir)
	if err != nil {
		return err
	}
	if !session.HasPendingWindow() {
		return nil
	}

	start, end, campaigns := session.TakePendingWindow()
	if input.Start, err = ops.ParseDate(start); err != nil {
		return err
	}
	if input.End, err = ops.ParseDate(end); err != nil {
		return err
	}
	if len(input.Campaigns) == 0 {
		input.Campaigns = campaigns
	}
	return ops.SaveSession(baseDir, session)
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if tErr, ok := err.(*errors.TractionError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", tErr.Code, tErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseList splits a comma-separated string into trimmed parts.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
