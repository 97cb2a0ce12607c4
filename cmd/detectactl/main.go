// detectactl is the command-line client for the DetectaBB boleto
// fraud-screening service: submit a document, await the analysis and
// render the verification checklist, plus account and history commands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/detectabb/detectago/internal/acquire"
	"github.com/detectabb/detectago/internal/analysis"
	"github.com/detectabb/detectago/internal/client"
	"github.com/detectabb/detectago/internal/common"
	"github.com/detectabb/detectago/internal/export"
	"github.com/detectabb/detectago/internal/poll"
	"github.com/detectabb/detectago/internal/progress"
	"github.com/detectabb/detectago/internal/session"
	"github.com/detectabb/detectago/internal/verify"
)

const usage = `Uso: detectactl <comando> [opções]

Comandos:
  analyze <arquivo>    Envia um boleto para análise e mostra o resultado
  batch <diretório>    Envia todos os boletos de um diretório
  result <id|latest>   Busca o resultado de uma análise
  history              Lista as análises do usuário autenticado
  export -o <arquivo>  Exporta o histórico para XLSX
  login                Autentica (-email, -senha)
  register             Cria uma conta (-nome, -email, -senha)
  me                   Mostra o usuário autenticado
  logout               Encerra a sessão local
`

func main() {
	// Structured logs on stderr; command output stays on stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.Load(cfg.Session.TokenPath, logger)
	api := client.New(client.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, sess, logger)
	poller := poll.New(api, logger,
		poll.WithMaxAttempts(cfg.Poll.MaxAttempts),
		poll.WithBackoffStep(cfg.Poll.BackoffStep),
	)
	controller := acquire.NewController(api, logger)

	app := &app{
		cfg:        cfg,
		sess:       sess,
		api:        api,
		poller:     poller,
		controller: controller,
		logger:     logger,
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "analyze":
		err = app.analyze(ctx, args)
	case "batch":
		err = app.batch(ctx, args)
	case "result":
		err = app.result(ctx, args)
	case "history":
		err = app.history(ctx)
	case "export":
		err = app.export(ctx, args)
	case "login":
		err = app.login(ctx, args)
	case "register":
		err = app.register(ctx, args)
	case "me":
		err = app.me(ctx)
	case "logout":
		err = app.logout()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", common.UserMessage(err))
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	if strings.EqualFold(os.Getenv("DETECTABB_LOG_LEVEL"), "debug") {
		return slog.LevelDebug
	}
	if strings.EqualFold(os.Getenv("DETECTABB_LOG_LEVEL"), "info") {
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

type app struct {
	cfg        *common.Config
	sess       *session.Session
	api        *client.Client
	poller     *poll.Poller
	controller *acquire.Controller
	logger     *slog.Logger
}

func (a *app) analyze(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("informe o arquivo: detectactl analyze <arquivo>")
	}

	cand, err := acquire.CandidateFromFile(args[0])
	if err != nil {
		return common.WrapError(err, "ler arquivo")
	}

	id, violations, err := a.controller.Submit(ctx, cand)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return common.NewAppError("VALIDATION_ERROR", strings.Join(violations, " "), common.ErrInvalidInput)
	}
	fmt.Printf("Análise iniciada (id %s). Aguardando resultado...\n", id)

	// Cosmetic staged indicator; torn down whatever happens to the poll.
	ind := progress.Start(progress.DefaultStages(), func(u progress.Update) {
		fmt.Fprintf(os.Stderr, "\r[%3d%%] %-40s", u.Percent, u.Label)
		if u.Done {
			fmt.Fprintln(os.Stderr)
		}
	}, a.logger)
	rec, err := a.poller.Await(ctx, id)
	ind.Stop()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	renderReport(rec)
	return nil
}

func (a *app) batch(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("informe o diretório: detectactl batch <diretório>")
	}

	paths, err := acquire.ScanDirectory(args[0])
	if err != nil {
		return common.WrapError(err, "varrer diretório")
	}
	if len(paths) == 0 {
		fmt.Println("Nenhum boleto encontrado.")
		return nil
	}

	failed := 0
	for _, path := range paths {
		cand, err := acquire.CandidateFromFile(path)
		if err != nil {
			fmt.Printf("%s: erro ao ler (%v)\n", path, err)
			failed++
			continue
		}
		id, violations, err := a.controller.Submit(ctx, cand)
		switch {
		case err != nil:
			fmt.Printf("%s: %s\n", path, common.UserMessage(err))
			failed++
		case len(violations) > 0:
			fmt.Printf("%s: %s\n", path, strings.Join(violations, " "))
			failed++
		default:
			fmt.Printf("%s: análise %s\n", path, id)
		}
	}
	fmt.Printf("%d arquivo(s) enviados, %d falha(s)\n", len(paths)-failed, failed)
	return nil
}

func (a *app) result(ctx context.Context, args []string) error {
	id := "latest"
	if len(args) > 0 {
		id = args[0]
	}

	var rec *analysis.Record
	var err error
	if id == "latest" {
		rec, err = a.poller.Latest()
	} else {
		rec, err = a.poller.Await(ctx, id)
	}
	if err != nil {
		return err
	}
	renderReport(rec)
	return nil
}

func (a *app) history(ctx context.Context) error {
	recs, err := a.api.History(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("Nenhuma análise no histórico.")
		return nil
	}
	for _, rec := range recs {
		report := verify.Derive(rec)
		date := rec.CreatedAt
		if date == "" {
			date = "Data não disponível"
		}
		fmt.Printf("%s  %s  score %d%%  %s\n", rec.ID, date, report.Score, report.Verdict())
	}
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "analises.xlsx", "Arquivo XLSX de saída")
	if err := fs.Parse(args); err != nil {
		return err
	}

	recs, err := a.api.History(ctx)
	if err != nil {
		return err
	}

	data, err := export.NewService(a.logger).HistoryXLSX(recs)
	if err != nil {
		return common.WrapError(err, "gerar planilha")
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return common.WrapError(err, "gravar planilha")
	}
	fmt.Printf("%d análise(s) exportadas para %s\n", len(recs), *out)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "Email da conta")
	senha := fs.String("senha", "", "Senha da conta")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := common.NewValidator()
	v.Field("email", *email, common.Required, common.Email)
	v.Field("senha", *senha, common.Required)
	if err := v.Error(); err != nil {
		return err
	}

	user, err := a.api.Login(ctx, *email, *senha)
	if err != nil {
		return err
	}
	fmt.Printf("Login realizado com sucesso! (%s)\n", user.Email)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	nome := fs.String("nome", "", "Nome completo")
	email := fs.String("email", "", "Email da conta")
	senha := fs.String("senha", "", "Senha da conta")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := common.NewValidator()
	v.Field("nome", *nome, common.Required)
	v.Field("email", *email, common.Required, common.Email)
	v.Field("senha", *senha, common.Required, common.Password)
	if err := v.Error(); err != nil {
		return err
	}

	user, err := a.api.Register(ctx, *nome, *email, *senha)
	if err != nil {
		return err
	}
	fmt.Printf("Cadastro realizado com sucesso! (%s)\n", user.Email)
	return nil
}

func (a *app) me(ctx context.Context) error {
	if !a.sess.Authenticated() {
		return common.ErrUnauthorized
	}
	user, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Nome, user.Email)
	return nil
}

func (a *app) logout() error {
	if err := a.sess.Logout(); err != nil {
		return err
	}
	fmt.Println("Sessão encerrada.")
	return nil
}

func renderReport(rec *analysis.Record) {
	report := verify.Derive(rec)

	fmt.Printf("\n%s\n", report.Verdict())
	fmt.Printf("Score: %d%% (%d de %d verificações aprovadas)\n\n",
		report.Score, report.ChecksOK, len(report.Checks))

	for _, c := range report.Checks {
		fmt.Printf("%s %s\n", statusGlyph(c.Status), c.Item)
		fmt.Printf("    %s\n", c.Detail)
		fmt.Printf("    %s\n", c.Value)
	}
	if report.IsFraud {
		fmt.Println("\nAtenção! Este boleto pode ser falso. Evite realizar o pagamento.")
	} else {
		fmt.Println("\nEste boleto passou pelas verificações básicas.")
	}
}

func statusGlyph(s verify.Status) string {
	switch s {
	case verify.StatusOK:
		return "[✓]"
	case verify.StatusAlert:
		return "[!]"
	default:
		return "[✗]"
	}
}
