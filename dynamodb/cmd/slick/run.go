package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/acksell/slickddb/dynamodb/ddbiface"
	"github.com/acksell/slickddb/dynamodb/journal"
	"github.com/acksell/slickddb/dynamodb/preflight"
	"github.com/acksell/slickddb/dynamodb/slick"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
)

func runPlan(cfg Config, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)

	var (
		file       = fs.String("f", "", "request file (YAML)")
		journalDir = fs.String("journal", cfg.JournalDir, "record the request in this journal directory")
		logLevel   = fs.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	)

	fs.Usage = func() {
		fmt.Println(`slick plan - Assemble a request and print the payload without sending it

Usage:
  slick plan -f request.yaml [flags]

Flags:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-f is required")
	}

	log, err := newLogger(*logLevel)
	if err != nil {
		return err
	}
	in, err := loadRequest(*file)
	if err != nil {
		return err
	}

	j, err := journal.Open(journal.Options{Path: *journalDir, Logger: &log})
	if err != nil {
		return err
	}
	defer j.Close()

	c := slick.New(j.Wrap(nil), slick.WithLogger(log))
	if _, err := send(context.Background(), c, in); err != nil {
		return err
	}
	entries, err := j.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("nothing was recorded")
	}
	return printJSON(os.Stdout, entries[len(entries)-1])
}

func runExec(cfg Config, args []string) error {
	fs := flag.NewFlagSet("exec", flag.ExitOnError)

	var (
		file         = fs.String("f", "", "request file (YAML)")
		region       = fs.String("region", cfg.Region, "AWS region")
		profile      = fs.String("profile", cfg.Profile, "AWS shared config profile")
		endpoint     = fs.String("endpoint", cfg.Endpoint, "DynamoDB endpoint URL, e.g. for DynamoDB local")
		journalDir   = fs.String("journal", cfg.JournalDir, "record the request in this journal directory")
		check        = fs.Bool("preflight", false, "check IAM permissions before sending")
		requestToken = fs.Bool("request-token", false, "set a random ClientRequestToken on transact-write requests without one")
		logLevel     = fs.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	)

	fs.Usage = func() {
		fmt.Println(`slick exec - Assemble a request and send it to DynamoDB

Usage:
  slick exec -f request.yaml [flags]

Flags:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-f is required")
	}

	log, err := newLogger(*logLevel)
	if err != nil {
		return err
	}
	in, err := loadRequest(*file)
	if err != nil {
		return err
	}
	if tw, ok := in.(*slick.TransactWriteItemsInput); ok && *requestToken && tw.ClientRequestToken == nil {
		tw.ClientRequestToken = aws.String(uuid.NewString())
		log.Info().Str("token", *tw.ClientRequestToken).Msg("generated client request token")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var loadOpts []func(*config.LoadOptions) error
	if *region != "" {
		loadOpts = append(loadOpts, config.WithRegion(*region))
	}
	if *profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(*profile))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	if *check {
		if err := runPreflight(ctx, preflight.NewFromConfig(awsCfg, log), in); err != nil {
			return err
		}
	}

	var delegate ddbiface.AWSDynamoClientV2 = dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if *endpoint != "" {
			o.BaseEndpoint = aws.String(*endpoint)
		}
	})
	if *journalDir != "" {
		j, err := journal.Open(journal.Options{Path: *journalDir, Logger: &log})
		if err != nil {
			return err
		}
		defer j.Close()
		delegate = j.Wrap(delegate)
	}

	out, err := send(ctx, slick.New(delegate, slick.WithLogger(log)), in)
	if err != nil {
		return err
	}
	view, err := outputView(out)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, view)
}

// runPreflight assembles in and checks the actions it needs.
func runPreflight(ctx context.Context, checker *preflight.Checker, in any) error {
	assembled, err := build(in)
	if err != nil {
		return err
	}
	return checker.Check(ctx, preflight.Requirements(assembled))
}

// build assembles in into its SDK input without sending it.
func build(in any) (any, error) {
	switch v := in.(type) {
	case *slick.GetItemInput:
		return slick.BuildGetItem(v)
	case *slick.PutItemInput:
		return slick.BuildPutItem(v)
	case *slick.UpdateItemInput:
		return slick.BuildUpdateItem(v)
	case *slick.DeleteItemInput:
		return slick.BuildDeleteItem(v)
	case *slick.QueryInput:
		return slick.BuildQuery(v)
	case *slick.ScanInput:
		return slick.BuildScan(v)
	case *slick.BatchGetItemInput:
		return slick.BuildBatchGetItem(v)
	case *dynamodb.BatchWriteItemInput:
		return v, nil
	case *slick.TransactGetItemsInput:
		return slick.BuildTransactGetItems(v)
	case *slick.TransactWriteItemsInput:
		return slick.BuildTransactWriteItems(v)
	default:
		return nil, fmt.Errorf("unsupported request type %T", in)
	}
}

func send(ctx context.Context, c *slick.Client, in any) (any, error) {
	switch v := in.(type) {
	case *slick.GetItemInput:
		return c.GetItem(ctx, v)
	case *slick.PutItemInput:
		return c.PutItem(ctx, v)
	case *slick.UpdateItemInput:
		return c.UpdateItem(ctx, v)
	case *slick.DeleteItemInput:
		return c.DeleteItem(ctx, v)
	case *slick.QueryInput:
		return c.Query(ctx, v)
	case *slick.ScanInput:
		return c.Scan(ctx, v)
	case *slick.BatchGetItemInput:
		return c.BatchGetItem(ctx, v)
	case *dynamodb.BatchWriteItemInput:
		return c.BatchWriteItem(ctx, v)
	case *slick.TransactGetItemsInput:
		return c.TransactGetItems(ctx, v)
	case *slick.TransactWriteItemsInput:
		return c.TransactWriteItems(ctx, v)
	default:
		return nil, fmt.Errorf("unsupported request type %T", in)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
