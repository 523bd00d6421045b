package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/safety-roster/internal/api/dto"
	"github.com/spec-kit/safety-roster/internal/auth"
	"github.com/spec-kit/safety-roster/internal/config"
	"github.com/spec-kit/safety-roster/internal/domain"
	"github.com/spec-kit/safety-roster/internal/events"
	"github.com/spec-kit/safety-roster/internal/identifier"
	"github.com/spec-kit/safety-roster/internal/observability"
	"github.com/spec-kit/safety-roster/internal/persistence"
	"github.com/spec-kit/safety-roster/internal/repository"
	"github.com/spec-kit/safety-roster/internal/service"
	"github.com/spec-kit/safety-roster/internal/worker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cli holds the collaborators shared by subcommands. Nil fields are built on first use.
type cli struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   persistence.Backend
	verbose bool

	registry     *service.RegistryService
	stopNotifier func()
	ownsStore    bool
}

func newRootCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rosterctl",
		Short: "Operator CLI for the staff safety roster",
		Long: `rosterctl reads and corrects staff safety records directly against the configured
store backend. It loads the same environment (and .env file) as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			c.close()
		},
	}
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output to stderr")
	cmd.AddCommand(
		newNormalizeCmd(),
		newGetCmd(c),
		newSaveCmd(c),
		newRosterCmd(c),
		newHashPasswordCmd(c),
	)
	return cmd
}

func (c *cli) init() error {
	if c.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c.cfg = cfg
	}
	if c.logger == nil {
		logCfg := config.LoggerConfig{Level: "warn", Format: "console", Output: "stderr"}
		if c.verbose {
			logCfg.Level = "debug"
		}
		logger, err := observability.NewLogger(logCfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		c.logger = logger
	}
	return nil
}

func (c *cli) openRegistry(ctx context.Context) (*service.RegistryService, error) {
	if c.registry != nil {
		return c.registry, nil
	}
	if c.store == nil {
		store, err := persistence.Open(ctx, c.cfg, c.logger)
		if err != nil {
			return nil, err
		}
		c.store = store
		c.ownsStore = true
	}

	dispatcher := events.NewInMemoryDispatcher()
	c.stopNotifier = worker.StartNotificationWorker(service.NewNotificationService(dispatcher, c.logger, c.cfg.Notification))
	c.registry = service.NewRegistryService(*c.cfg, service.RegistryDependencies{
		StaffRepo:  repository.NewStaffRepository(c.store),
		Dispatcher: dispatcher,
		Logger:     c.logger,
	})
	return c.registry, nil
}

func (c *cli) close() {
	if c.stopNotifier != nil {
		c.stopNotifier()
	}
	if c.ownsStore && c.store != nil {
		c.store.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <raw-id>",
		Short: "Print the canonical form of a staff id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identifier.Normalize(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <raw-id>",
		Short: "Show the stored record for a staff id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			draft, err := registry.FetchForEdit(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.EditDraftResponse{
				Found:  draft.Found,
				Record: dto.NewStaffRecordResponse(draft.Record),
			})
		},
	}
}

func newSaveCmd(c *cli) *cobra.Command {
	var req dto.StaffSaveRequest
	cmd := &cobra.Command{
		Use:   "save <raw-id>",
		Short: "Replace the record for a staff id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identifier.Normalize(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			registry, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			ack, err := registry.Save(cmd.Context(), id, req.Fields())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s) at %s\n",
				ack.Record.ID, ack.Record.Status.Label(), ack.Record.UpdatedAt.Format("2006-01-02 15:04:05Z07:00"))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.Name, "name", "", "Staff member name")
	flags.StringVar(&req.Department, "department", "", "Department")
	flags.StringVar(&req.Status, "status", "", "safe, minor_injury or serious_injury (labels accepted)")
	flags.StringVar(&req.Location, "location", "", "Current location")
	flags.StringVar(&req.Reportable, "reportable", "", "Availability to report for duty")
	flags.StringVar(&req.ReportTime, "report-time", "", "Expected reporting time")
	flags.StringVar(&req.Comment, "comment", "", "Free-text comment")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newRosterCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Print every stored record with status totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			view := registry.Roster(cmd.Context())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), dto.NewRosterResponse(view))
			}
			return writeRosterTable(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newHashPasswordCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for AUTH_ADMIN_PASSWORD_HASH",
		Long:  "Hashes the given password, or the first line of stdin when no argument is passed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			hash, err := auth.HashPassword(password, c.cfg.Auth.BcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRosterTable(w io.Writer, view domain.RosterView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDEPARTMENT\tSTATUS\tLOCATION\tREPORTABLE\tUPDATED")
	for _, rec := range view.Records {
		updated := ""
		if !rec.UpdatedAt.IsZero() {
			updated = rec.UpdatedAt.Local().Format("01/02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Name, rec.Department, rec.Status.Label(), rec.Location, rec.Reportable.Label(), updated)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := view.Counts
	fmt.Fprintf(w, "\ntotal %d  safe %d  minor %d  serious %d  unconfirmed %d\n",
		counts.Total, counts.Safe, counts.MinorInjury, counts.SeriousInjury, counts.Unconfirmed())
	if view.Report.Partial() {
		fmt.Fprintf(w, "warning: roster may be incomplete (%d of %d entries unreadable, listing failed: %t)\n",
			view.Report.Skipped, view.Report.Listed, view.Report.Degraded)
	}
	return nil
}
