// Command pulsectl runs the dashboard fetch pipeline once and prints the
// result as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/danielmmetz/hn-pulse/analytics"
	"github.com/danielmmetz/hn-pulse/hn"
	"github.com/danielmmetz/hn-pulse/store"
	"github.com/danielmmetz/hn-pulse/worker"
)

type options struct {
	baseURL     string
	timeout     time.Duration
	maxInFlight int
	rps         float64
	timezone    string
	indent      bool
	cfg         worker.Config
}

func (o *options) fetcher() *worker.Fetcher {
	client := hn.NewClient(hn.Options{
		BaseURL:           o.baseURL,
		Timeout:           o.timeout,
		MaxInFlight:       o.maxInFlight,
		RequestsPerSecond: o.rps,
	})
	return worker.NewFetcher(client, store.NewSnapshot(), o.cfg)
}

func (o *options) print(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if o.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func newRootCmd() *cobra.Command {
	o := &options{cfg: worker.DefaultConfig()}

	root := &cobra.Command{
		Use:           "pulsectl",
		Short:         "Fetch Hacker News stories, comment sentiment and dashboard aggregates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.baseURL, "hn-base-url", hn.DefaultBaseURL, "base URL of the Hacker News API")
	pf.DurationVar(&o.timeout, "http-timeout", 15*time.Second, "timeout for each upstream request")
	pf.IntVar(&o.maxInFlight, "max-inflight", 0, "maximum concurrent upstream requests (0 = unbounded)")
	pf.Float64Var(&o.rps, "requests-per-second", 0, "upstream request rate limit (0 = unlimited)")
	pf.IntVar(&o.cfg.TopStoriesLimit, "top-stories-limit", o.cfg.TopStoriesLimit, "number of top stories fetched")
	pf.IntVar(&o.cfg.SentimentStoriesLimit, "sentiment-stories-limit", o.cfg.SentimentStoriesLimit, "number of stories whose comments are scored")
	pf.IntVar(&o.cfg.CommentsPerStory, "comments-per-story", o.cfg.CommentsPerStory, "first-level comments scored per story")
	pf.IntVar(&o.cfg.Tree.MaxDepth, "tree-max-depth", o.cfg.Tree.MaxDepth, "deepest reply level fetched")
	pf.IntVar(&o.cfg.Tree.MaxChildren, "tree-max-children", o.cfg.Tree.MaxChildren, "replies fetched per comment (0 = all)")
	pf.StringVar(&o.timezone, "timezone", "Local", "IANA time zone for calendar days and hours")
	pf.BoolVar(&o.indent, "indent", false, "indent JSON output")

	root.AddCommand(
		&cobra.Command{
			Use:   "stories",
			Short: "Print the top stories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				stories, err := o.fetcher().LoadTopStories(cmd.Context())
				if err != nil {
					return err
				}
				return o.print(cmd, stories)
			},
		},
		&cobra.Command{
			Use:   "sentiments",
			Short: "Print scored first-level comments of the top stories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				comments, err := o.fetcher().LoadCommentSentiments(cmd.Context())
				if err != nil {
					return err
				}
				return o.print(cmd, comments)
			},
		},
		&cobra.Command{
			Use:   "story <id>",
			Short: "Print a story with its scored comment tree",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("parse story id %q: %w", args[0], err)
				}
				story, err := o.fetcher().StoryWithComments(cmd.Context(), id)
				if err != nil {
					return err
				}
				return o.print(cmd, story)
			},
		},
		&cobra.Command{
			Use:   "dashboard",
			Short: "Print every dashboard aggregate",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				loc, err := time.LoadLocation(o.timezone)
				if err != nil {
					return fmt.Errorf("load timezone: %w", err)
				}
				f := o.fetcher()
				stories, err := f.LoadTopStories(cmd.Context())
				if err != nil {
					return err
				}
				comments, err := f.LoadCommentSentiments(cmd.Context())
				if err != nil {
					return err
				}
				return o.print(cmd, analytics.BuildDashboard(stories, comments, time.Now().In(loc)))
			},
		},
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pulsectl:", err)
		os.Exit(1)
	}
}
