// Package main is a command-line client for the account and history API.
//
// Usage:
//
//	client [-addr URL] signup <name> <email> <password>
//	client [-addr URL] signin <email> <password>
//	client [-addr URL] checkout <userID> <name> <phone> <address> <account> <pinOrCvv> <cartJSON>
//	client [-addr URL] history <userID>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/atinyakov/dirac/internal/client"
)

func main() {
	addr := flag.String("addr", "http://localhost:3000", "server base URL")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := run(ctx, client.New(*addr), flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func run(ctx context.Context, c *client.Client, args []string) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: client signup|signin|checkout|history ...")
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "signup":
		if len(rest) != 3 {
			return nil, fmt.Errorf("usage: signup <name> <email> <password>")
		}
		msg, err := c.SignUp(ctx, rest[0], rest[1], rest[2])
		return map[string]string{"msg": msg}, err
	case "signin":
		if len(rest) != 2 {
			return nil, fmt.Errorf("usage: signin <email> <password>")
		}
		id, err := c.SignIn(ctx, rest[0], rest[1])
		return map[string]int64{"userID": id}, err
	case "checkout":
		if len(rest) != 7 {
			return nil, fmt.Errorf("usage: checkout <userID> <name> <phone> <address> <account> <pinOrCvv> <cartJSON>")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid userID: %w", err)
		}
		if !json.Valid([]byte(rest[6])) {
			return nil, fmt.Errorf("cart must be valid JSON")
		}
		msg, err := c.Checkout(ctx, client.Checkout{
			UserID:        id,
			Name:          rest[1],
			PhoneNumber:   rest[2],
			Address:       rest[3],
			AccountNumber: rest[4],
			PinOrCvv:      rest[5],
			ListCart:      json.RawMessage(rest[6]),
		})
		return map[string]string{"msg": msg}, err
	case "history":
		if len(rest) != 1 {
			return nil, fmt.Errorf("usage: history <userID>")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid userID: %w", err)
		}
		return c.History(ctx, id)
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}
