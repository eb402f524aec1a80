package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kevin07696/paycek-go/internal/adapters/secrets"
	"github.com/kevin07696/paycek-go/internal/config"
	pkghttp "github.com/kevin07696/paycek-go/pkg/http"
	"github.com/kevin07696/paycek-go/pkg/logging"
	"github.com/kevin07696/paycek-go/pkg/observability"
	"github.com/kevin07696/paycek-go/pkg/paycek"
	"github.com/kevin07696/paycek-go/pkg/timeutil"
)

// actionArgs carries every flag an action may need
type actionArgs struct {
	action       string
	profileCode  string
	paymentCode  string
	amount       string
	currency     string
	method       string
	password     string
	datetimeFrom string
	datetimeTo   string
	details      map[string]any
	account      paycek.AccountRequest
	fields       paycek.Fields
}

func main() {
	var (
		action       = flag.String("action", "", "Action to perform (see usage)")
		profileCode  = flag.String("profile", "", "Profile code")
		paymentCode  = flag.String("payment", "", "Payment code")
		amount       = flag.String("amount", "", "Amount as a decimal string, e.g. 10.00")
		currency     = flag.String("currency", "", "Source currency for update-payment, profile currency for create-account")
		method       = flag.String("method", "", "Withdraw method (withdraw, create-account)")
		password     = flag.String("password", "", "Account password (create-account)")
		email        = flag.String("email", "", "Account email (create-account)")
		name         = flag.String("name", "", "Account name (create-account)")
		street       = flag.String("street", "", "Account street (create-account)")
		city         = flag.String("city", "", "Account city (create-account)")
		country      = flag.String("country", "", "Account country (create-account)")
		datetimeFrom = flag.String("from", "", "Report range start (reports)")
		datetimeTo   = flag.String("to", "", "Report range end (reports)")
		day          = flag.String("day", "", "Report a whole UTC day, YYYY-MM-DD (reports, instead of -from/-to)")
		detailsJSON  = flag.String("details", "{}", "Withdraw details as a JSON object")
		fieldsJSON   = flag.String("fields", "{}", "Optional fields as a JSON object")
	)
	flag.Parse()

	if *action == "" {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := actionArgs{
		action:       *action,
		profileCode:  *profileCode,
		paymentCode:  *paymentCode,
		amount:       *amount,
		currency:     *currency,
		method:       *method,
		password:     *password,
		datetimeFrom: *datetimeFrom,
		datetimeTo:   *datetimeTo,
		account: paycek.AccountRequest{
			Email:                          *email,
			Name:                           *name,
			Street:                         *street,
			City:                           *city,
			Country:                        *country,
			ProfileCurrency:                *currency,
			ProfileAutomaticWithdrawMethod: *method,
		},
	}
	if *day != "" {
		args.datetimeFrom, args.datetimeTo, err = timeutil.DayRange(*day)
		if err != nil {
			logger.Zap().Fatal("Invalid -day", zap.Error(err))
		}
	}
	if err := json.Unmarshal([]byte(*detailsJSON), &args.details); err != nil {
		logger.Zap().Fatal("Invalid -details JSON", zap.Error(err))
	}
	args.account.ProfileAutomaticWithdrawDetails = args.details
	if err := json.Unmarshal([]byte(*fieldsJSON), &args.fields); err != nil {
		logger.Zap().Fatal("Invalid -fields JSON", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := secrets.ResolveCredentials(ctx, cfg, logger.Zap())
	if err != nil {
		logger.Zap().Fatal("Failed to resolve Paycek credentials", zap.Error(err))
	}

	client, err := paycek.NewClient(
		paycek.Config{Credentials: creds, Host: cfg.Paycek.Host},
		pkghttp.NewHTTPClient(pkghttp.PaycekClientConfig(), cfg.Paycek.TimeoutDuration()),
		logger,
		observability.NewClientMetrics(prometheus.NewRegistry()),
	)
	if err != nil {
		logger.Zap().Fatal("Failed to create Paycek client", zap.Error(err))
	}

	result, err := runAction(ctx, client, args)
	if err != nil {
		logger.Zap().Fatal("Action failed", zap.String("action", args.action), zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Zap().Fatal("Failed to print result", zap.Error(err))
	}
}

// runAction dispatches one CLI action to the client
func runAction(ctx context.Context, client *paycek.Client, args actionArgs) (any, error) {
	switch args.action {
	case "open-payment":
		return client.OpenPayment(ctx, args.profileCode, args.amount, args.fields)
	case "payment-url":
		url, err := client.GeneratePaymentURL(ctx, args.profileCode, args.amount, args.fields)
		if err != nil {
			return nil, err
		}
		return map[string]string{"payment_url": url}, nil
	case "get-payment":
		return client.GetPayment(ctx, args.paymentCode)
	case "update-payment":
		return client.UpdatePayment(ctx, args.paymentCode, args.currency, args.fields)
	case "cancel-payment":
		return client.CancelPayment(ctx, args.paymentCode)
	case "profile-info":
		return client.GetProfileInfo(ctx, args.profileCode)
	case "withdraw":
		return client.ProfileWithdraw(ctx, args.profileCode, args.method, args.amount, args.details, args.fields)
	case "create-account":
		if args.password != "" {
			return client.CreateAccountWithPassword(ctx, args.account, args.password, args.fields)
		}
		return client.CreateAccount(ctx, args.account, args.fields)
	case "reports":
		return client.GetReports(ctx, args.profileCode, args.datetimeFrom, args.datetimeTo, args.fields)
	default:
		return nil, fmt.Errorf("unknown action: %s", args.action)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paycek -action=<action> [options]")
	fmt.Fprintln(w, "Actions:")
	fmt.Fprintln(w, "  open-payment   - Open a payment (-profile, -amount, -fields)")
	fmt.Fprintln(w, "  payment-url    - Open a payment and print its payment URL")
	fmt.Fprintln(w, "  get-payment    - Fetch a payment (-payment)")
	fmt.Fprintln(w, "  update-payment - Select the source currency (-payment, -currency)")
	fmt.Fprintln(w, "  cancel-payment - Cancel a payment (-payment)")
	fmt.Fprintln(w, "  profile-info   - Fetch profile details (-profile)")
	fmt.Fprintln(w, "  withdraw       - Withdraw from a profile (-profile, -method, -amount, -details)")
	fmt.Fprintln(w, "  create-account - Create an account, with -password if given")
	fmt.Fprintln(w, "  reports        - Fetch reports (-profile, -from, -to or -day)")
	fmt.Fprintln(w, "Credentials come from PAYCEK_API_KEY/PAYCEK_API_SECRET or SECRETS_BACKEND.")
}
