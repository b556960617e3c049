package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/betterchoicedev/checkout-api/internal/gateway/stripe"
	"github.com/betterchoicedev/checkout-api/internal/infra"
)

// subctl is an operator tool for inspecting and mutating subscriptions
// through the payment gateway.
//
//	subctl -customer cus_123 list
//	subctl -sub sub_123 cancel [-now]
//	subctl -sub sub_123 reactivate
func main() {
	var (
		customerFlag string
		subFlag      string
		nowFlag      bool
	)

	flag.StringVar(&customerFlag, "customer", "", "customer ID (for list)")
	flag.StringVar(&subFlag, "sub", "", "subscription ID (for cancel/reactivate)")
	flag.BoolVar(&nowFlag, "now", false, "cancel immediately instead of at period end")
	flag.Parse()

	command := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	if command == "" {
		exitWithError(errors.New("a command is required: list, cancel or reactivate"))
	}

	baseURL := strings.TrimSpace(os.Getenv("PAYMENT_API_BASE_URL"))
	if baseURL == "" {
		exitWithError(errors.New("PAYMENT_API_BASE_URL is required"))
	}

	logger := infra.NewLogger("cli").With().Str("cmd", "subctl").Logger()
	client, err := stripe.NewClient(stripe.Options{
		BaseURL:        baseURL,
		Logger:         &logger,
		RequestTimeout: 10 * time.Second,
		DisableBreaker: true,
	})
	if err != nil {
		exitWithError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command {
	case "list":
		customerID := strings.TrimSpace(customerFlag)
		if customerID == "" {
			exitWithError(errors.New("-customer is required for list"))
		}
		subs, err := client.CustomerSubscriptions(ctx, customerID)
		if err != nil {
			exitWithError(fmt.Errorf("failed to list subscriptions: %w", err))
		}
		if len(subs) == 0 {
			fmt.Printf("customer %s has no subscriptions\n", customerID)
			return
		}
		for _, s := range subs {
			periodEnd := time.Unix(s.CurrentPeriodEnd, 0).UTC().Format(time.RFC3339)
			fmt.Printf("%s\tproduct=%s\tprice=%s\tstatus=%s\tcancel_at_period_end=%t\tperiod_end=%s\n",
				s.ID, s.ProductID, s.PriceID, s.Status, s.CancelAtPeriodEnd, periodEnd)
		}

	case "cancel":
		subID := strings.TrimSpace(subFlag)
		if subID == "" {
			exitWithError(errors.New("-sub is required for cancel"))
		}
		result, err := client.CancelSubscription(ctx, subID, !nowFlag)
		if err != nil {
			exitWithError(fmt.Errorf("failed to cancel subscription: %w", err))
		}
		printResult(result)

	case "reactivate":
		subID := strings.TrimSpace(subFlag)
		if subID == "" {
			exitWithError(errors.New("-sub is required for reactivate"))
		}
		result, err := client.ReactivateSubscription(ctx, subID)
		if err != nil {
			exitWithError(fmt.Errorf("failed to reactivate subscription: %w", err))
		}
		printResult(result)

	default:
		exitWithError(fmt.Errorf("unsupported command %q", command))
	}
}

func printResult(result *stripe.SubscriptionResult) {
	out, err := json.MarshalIndent(result.Subscription, "", "  ")
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(string(out))
	if result.Message != "" {
		fmt.Println(result.Message)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
