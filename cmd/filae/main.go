package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ViniciusItoi/filae-mobile/internal/app"
	"github.com/ViniciusItoi/filae-mobile/internal/config"
	"github.com/ViniciusItoi/filae-mobile/internal/filae"
	"github.com/ViniciusItoi/filae-mobile/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "login":
			return runLogin(args[1:])
		case "logout":
			return runLogout(args[1:])
		case "help", "-h", "--help":
			usage()
			return 0
		}
	}

	configPath := flag.String("config", "", "override filae config path (optional)")
	pollSeconds := flag.Int("poll", 0, "queue refresh interval in seconds (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "filae: %v\n", err)
		return 1
	}
	return 0
}

func runLogin(args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email (prompted when omitted)")
	configPath := fs.String("config", "", "override filae config path (optional)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filae: load config: %v\n", err)
		return 1
	}

	reader := bufio.NewReader(os.Stdin)
	addr := strings.TrimSpace(*email)
	if addr == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "filae: read email: %v\n", err)
			return 1
		}
		addr = strings.TrimSpace(line)
	}
	if addr == "" {
		fmt.Fprintln(os.Stderr, "filae: email is required")
		return 1
	}

	fmt.Print("Password: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "filae: read password: %v\n", err)
		return 1
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		fmt.Fprintln(os.Stderr, "filae: password is required")
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := filae.NewClient(cfg.BaseURL, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "filae: %v\n", err)
		return 1
	}
	client.SetTimeout(cfg.RequestTimeout)
	resp, err := client.Login(ctx, addr, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filae: login: %v\n", err)
		return 1
	}

	sess := session.Session{
		Token:    resp.Token,
		UserID:   resp.UserID,
		Name:     resp.Name,
		Email:    resp.Email,
		UserType: resp.UserType,
	}
	if err := session.Save("", sess); err != nil {
		fmt.Fprintf(os.Stderr, "filae: save session: %v\n", err)
		return 1
	}

	fmt.Printf("Signed in as %s (%s)\n", resp.Name, strings.ToLower(resp.UserType))
	return 0
}

func runLogout(args []string) int {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	_ = fs.Parse(args)

	if err := session.Clear(""); err != nil {
		fmt.Fprintf(os.Stderr, "filae: logout: %v\n", err)
		return 1
	}
	fmt.Println("Signed out")
	return 0
}

func usage() {
	fmt.Println(`filae - virtual queue client

Usage:
  filae [flags]       start the queue interface
  filae login         sign in and store a session
  filae logout        discard the stored session

Flags:
  -config path        override config file location
  -poll seconds       queue refresh interval`)
}
