// slick assembles and runs DynamoDB requests described in YAML, with
// expressions written as inline tokens instead of placeholder tables.
//
// # Installation
//
//	go install github.com/acksell/slickddb/dynamodb/cmd/slick@latest
//
// # Commands
//
//	slick plan     Assemble a request and print the payload without sending it
//	slick exec     Assemble a request and send it to DynamoDB
//	slick journal  List recorded requests
//
// # Request files
//
//	operation: update
//	request:
//	  TableName: games
//	  Key: {pk: "game#1"}
//	  UpdateExpression: ["SET ", {name: score}, " = ", {value: 10}]
//	  ConditionExpression: ["attribute_exists(", {name: pk}, ")"]
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	// Remove the subcommand from args so flag parsing works
	os.Args = append([]string{os.Args[0]}, os.Args[2:]...)

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "slick: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "plan":
		err = runPlan(cfg, os.Args[1:])
	case "exec":
		err = runExec(cfg, os.Args[1:])
	case "journal":
		err = runJournal(cfg, os.Args[1:])
	case "help", "-h", "--help":
		printUsage()
		return
	case "version", "-v", "--version":
		fmt.Printf("slick version %s\n", version)
		return
	default:
		fmt.Fprintf(os.Stderr, "slick: unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "slick %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`slick - DynamoDB requests with inline expression tokens

Usage:
  slick <command> [flags]

Commands:
  plan      Assemble a request and print the payload without sending it
  exec      Assemble a request and send it to DynamoDB
  journal   List recorded requests

Operations:
  get, put, update, delete, query, scan,
  batch-get, batch-write, transact-get, transact-write

Examples:
  slick plan -f update.yaml
  slick exec -f update.yaml --region eu-west-1 --preflight
  slick journal --dir ./.slick

Configuration (optional):
  Create slick.yaml for defaults:

    region: eu-west-1
    profile: dev
    endpoint: http://localhost:8000   # e.g. DynamoDB local
    journalDir: ./.slick              # record every request
    logLevel: info

Run 'slick <command> --help' for more information on a command.`)
}
