package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/armlabeler/internal/adapter/driven/actions"
	"github.com/ericfisherdev/armlabeler/internal/adapter/driven/git"
	githubadapter "github.com/ericfisherdev/armlabeler/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/armlabeler/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/armlabeler/internal/application"
	"github.com/ericfisherdev/armlabeler/internal/config"
	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

// app wires adapters and services for one invocation.
type app struct {
	cfg     *config.Config
	out     io.Writer
	console *actions.Console
}

func newApp(cfg *config.Config, out io.Writer) *app {
	return &app{
		cfg:     cfg,
		out:     out,
		console: actions.NewConsole(out),
	}
}

func prFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "pr",
			Usage: "pull request number; overrides the event payload",
		},
		&cli.StringFlag{
			Name:  "repo",
			Usage: "repository as owner/repo; overrides GITHUB_REPOSITORY",
		},
		&cli.StringFlag{
			Name:  "base",
			Usage: "reference commit changes are classified against; overrides ARMLABELER_BASE_REF",
		},
		&cli.StringFlag{
			Name:  "head",
			Usage: "commit carrying the changes; overrides ARMLABELER_HEAD_REF",
		},
		&cli.StringFlag{
			Name:  "base-branch",
			Usage: "target branch of the pull request, for required checks",
		},
		&cli.StringFlag{
			Name:  "head-sha",
			Usage: "head commit SHA of the pull request, for required checks",
		},
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:  "armlabeler",
		Usage: "label Azure REST API specification pull requests",
		Commands: []*cli.Command{
			{
				Name:   application.CommandRPService,
				Usage:  "label rp-service-new or rp-service-existing",
				Flags:  prFlags(),
				Action: a.runRPService,
			},
			{
				Name:   application.CommandTypeSpec,
				Usage:  "label typespec-new, typespec-incremental or typespec-noop",
				Flags:  prFlags(),
				Action: a.runTypeSpec,
			},
			{
				Name:   application.CommandAutoSignoff,
				Usage:  "add or remove ARMAutoSignedOff",
				Flags:  prFlags(),
				Action: a.runAutoSignoff,
			},
			{
				Name:  "changed-files",
				Usage: "print the changed resource-manager swagger files",
				Flags: append(prFlags(), &cli.BoolFlag{
					Name:  "include-deleted",
					Usage: "include deleted files",
				}),
				Action: a.runChangedFiles,
			},
			{
				Name:   "required-checks",
				Usage:  "print the required checks of the pull request and their state",
				Flags:  prFlags(),
				Action: a.runRequiredChecks,
			},
			{
				Name:  "history",
				Usage: "print label decisions recorded in the audit database",
				Flags: append(prFlags(), &cli.IntFlag{
					Name:  "limit",
					Value: 20,
					Usage: "maximum number of decisions",
				}),
				Action: a.runHistory,
			},
		},
	}
}

// pullRequest resolves the pull request from the event payload, the
// environment and the command's flags, in increasing precedence.
func (a *app) pullRequest(cmd *cli.Command) (model.PullRequest, error) {
	pr := model.PullRequest{}

	if a.cfg.EventPath != "" {
		loaded, err := actions.LoadPullRequest(a.cfg.EventPath)
		switch {
		case err == nil:
			pr = loaded
		case errors.Is(err, model.ErrNotPullRequest) && cmd.Int("pr") > 0:
			slog.Debug("event is not a pull request, using --pr")
		default:
			return model.PullRequest{}, err
		}
	}

	repo := cmd.String("repo")
	if repo == "" && pr.Owner == "" {
		repo = a.cfg.Repository
	}
	if repo != "" {
		owner, name, err := config.SplitRepository(repo)
		if err != nil {
			return model.PullRequest{}, err
		}
		pr.Owner, pr.Repo = owner, name
	}

	if n := cmd.Int("pr"); n > 0 {
		pr.Number = int(n)
	}
	pr.BaseCommit = firstNonEmpty(cmd.String("base"), a.cfg.BaseCommit)
	pr.HeadCommit = firstNonEmpty(cmd.String("head"), a.cfg.HeadCommit)
	pr.BaseRef = firstNonEmpty(cmd.String("base-branch"), pr.BaseRef)
	pr.HeadSHA = firstNonEmpty(cmd.String("head-sha"), pr.HeadSHA)

	return pr, nil
}

func (a *app) githubClient() (*githubadapter.Client, error) {
	if !a.cfg.HasGitHubToken() {
		return nil, errors.New("GITHUB_TOKEN is required")
	}
	return githubadapter.NewClient(a.cfg.GitHubToken, a.cfg.GitHubAPIURL)
}

// openAudit opens the audit database when one is configured. The returned
// close function is never nil.
func (a *app) openAudit(ctx context.Context) (*sqliteadapter.DecisionRepo, func(), error) {
	if a.cfg.AuditDBPath == "" {
		return nil, func() {}, nil
	}

	db, err := sqliteadapter.NewDB(ctx, a.cfg.AuditDBPath)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing audit database", "error", closeErr)
		}
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		closeDB()
		return nil, nil, err
	}
	slog.Debug("audit database opened", "path", a.cfg.AuditDBPath)

	return sqliteadapter.NewDecisionRepo(db), closeDB, nil
}

// labelService wires the services used by the labeling commands.
func (a *app) labelService(ctx context.Context) (*application.LabelService, func(), error) {
	policy, err := config.LoadPolicy(a.cfg.PolicyFile)
	if err != nil {
		return nil, nil, err
	}

	client, err := a.githubClient()
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := a.openAudit(ctx)
	if err != nil {
		return nil, nil, err
	}

	labels := application.NewLabelReconciler(client, client)
	classifier := application.NewChangeClassifier(git.NewRepoState(a.cfg.Workspace))
	signoff, err := application.NewSignoffService(labels, classifier, application.NewChecksService(client), policy)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	opts := []application.LabelServiceOption{
		application.WithRunReporter(actions.NewReporter(a.cfg.OutputPath, a.cfg.StepSummaryPath, a.cfg.ReportHTMLPath)),
	}
	if store != nil {
		opts = append(opts, application.WithDecisionStore(store))
	}

	return application.NewLabelService(classifier, labels, signoff, opts...), closeStore, nil
}

func (a *app) runRPService(ctx context.Context, cmd *cli.Command) error {
	pr, err := a.pullRequest(cmd)
	if err != nil {
		return err
	}
	svc, done, err := a.labelService(ctx)
	if err != nil {
		return err
	}
	defer done()

	rp, err := svc.RunRPService(ctx, pr)
	if err != nil {
		return err
	}
	a.console.Notice(fmt.Sprintf("%s: %s", pr, rp.Label()))
	return nil
}

func (a *app) runTypeSpec(ctx context.Context, cmd *cli.Command) error {
	pr, err := a.pullRequest(cmd)
	if err != nil {
		return err
	}
	svc, done, err := a.labelService(ctx)
	if err != nil {
		return err
	}
	defer done()

	ts, err := svc.RunTypeSpec(ctx, pr)
	if err != nil {
		return err
	}
	a.console.Notice(fmt.Sprintf("%s: %s", pr, ts.Label()))
	return nil
}

func (a *app) runAutoSignoff(ctx context.Context, cmd *cli.Command) error {
	pr, err := a.pullRequest(cmd)
	if err != nil {
		return err
	}
	svc, done, err := a.labelService(ctx)
	if err != nil {
		return err
	}
	defer done()

	decision, err := svc.RunAutoSignoff(ctx, pr)
	if err != nil {
		return err
	}
	if decision.Eligible {
		a.console.Notice(fmt.Sprintf("%s: %s", pr, model.LabelARMAutoSignedOff))
	} else {
		a.console.Notice(fmt.Sprintf("%s: not eligible for auto signoff (%s)", pr, decision.FailedGate))
	}
	return nil
}

func (a *app) runChangedFiles(ctx context.Context, cmd *cli.Command) error {
	pr, err := a.pullRequest(cmd)
	if err != nil {
		return err
	}

	filter := application.DiffFilterNoDeletes
	if cmd.Bool("include-deleted") {
		filter = application.DiffFilterAll
	}

	classifier := application.NewChangeClassifier(git.NewRepoState(a.cfg.Workspace))
	files, err := classifier.ChangedResourceManagerFiles(ctx, pr, filter)
	if err != nil {
		return err
	}

	end := a.console.Group(fmt.Sprintf("Changed resource-manager files (%d)", len(files)))
	for _, f := range files {
		fmt.Fprintln(a.out, f)
	}
	end()
	return nil
}

func (a *app) runRequiredChecks(ctx context.Context, cmd *cli.Command) error {
	pr, err := a.pullRequest(cmd)
	if err != nil {
		return err
	}
	client, err := a.githubClient()
	if err != nil {
		return err
	}

	summary, err := application.NewChecksService(client).Summarize(ctx, pr)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tREQUIRED\tSTATUS\tCONCLUSION")
	for _, run := range summary.CheckRuns {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", run.Name, run.IsRequired, run.Status, run.Conclusion)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(summary.Missing) > 0 {
		a.console.Warning("required checks not reported: " + strings.Join(summary.Missing, ", "))
	}
	a.console.Notice(fmt.Sprintf("%s: required checks %s", pr, summary.CIStatus))
	return nil
}

func (a *app) runHistory(ctx context.Context, cmd *cli.Command) error {
	if a.cfg.AuditDBPath == "" {
		return errors.New("ARMLABELER_AUDIT_DB is not set")
	}
	store, done, err := a.openAudit(ctx)
	if err != nil {
		return err
	}
	defer done()

	repo := firstNonEmpty(cmd.String("repo"), a.cfg.Repository)

	var decisions []model.LabelDecision
	if n := cmd.Int("pr"); n > 0 {
		decisions, err = store.ListByPR(ctx, repo, int(n))
	} else {
		decisions, err = store.ListRecent(ctx, repo, int(cmd.Int("limit")))
	}
	if err != nil {
		return err
	}

	return writeHistory(a.out, decisions)
}

func writeHistory(w io.Writer, decisions []model.LabelDecision) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DECIDED\tPULL REQUEST\tCOMMAND\tOUTCOME\tAPPLIED\tREMOVED")
	for _, d := range decisions {
		fmt.Fprintf(tw, "%s\t%s#%d\t%s\t%s\t%s\t%s\n",
			d.DecidedAt.Format("2006-01-02 15:04:05"),
			d.RepoFullName, d.PRNumber,
			d.Command, d.Outcome,
			dashIfEmpty(d.Applied), dashIfEmpty(strings.Join(d.Removed, ",")),
		)
	}
	return tw.Flush()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
