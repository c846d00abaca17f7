package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/danmuck/afcctl/internal/afc"
	"github.com/danmuck/afcctl/internal/logging"
	"github.com/danmuck/afcctl/internal/observability"
	"github.com/danmuck/afcctl/internal/protocol"
)

const usage = `usage: afcctl [flags] <verb> [args]

verbs:
  ls <dir>             list a remote directory
  walk <dir>           list a remote tree depth-first
  stat <path>          print file attributes
  info                 print device filesystem attributes
  mkdir <dir>          create a remote directory
  rm <path>            remove a file or empty directory
  rm-r <path>          remove a path and its contents
  mv <from> <to>       rename a remote path
  pull <remote> <local>  copy a remote file to disk
  push <local> <remote>  copy a local file to the device
`

func main() {
	configPath := flag.String("config", "", "path to afcctl config file")
	addr := flag.String("addr", "", "device service address (overrides config)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	logging.ConfigureRuntime()
	observability.RegisterMetrics()

	if err := run(*configPath, *addr, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "afcctl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("missing verb")
	}

	cfg := defaultClientConfig()
	if configPath != "" {
		loaded, err := loadClientConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyEnvOverrides(&cfg)
	if addr != "" {
		cfg.Address = addr
	}
	if cfg.Address == "" {
		return fmt.Errorf("no device address; set -addr or address in config")
	}

	conn, err := net.Dial("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("dial device: %w", err)
	}
	client := afc.NewClient(conn, cfg.connConfig())
	defer client.Close()

	verb, operands := args[0], args[1:]
	switch verb {
	case "ls":
		return runList(client, operands)
	case "walk":
		return runWalk(client, operands)
	case "stat":
		return runStat(client, operands)
	case "info":
		return runInfo(client)
	case "mkdir":
		return runUnary(operands, "mkdir <dir>", client.CreateDirectory)
	case "rm":
		return runUnary(operands, "rm <path>", client.RemovePath)
	case "rm-r":
		return runUnary(operands, "rm-r <path>", client.RemoveAll)
	case "mv":
		if len(operands) != 2 {
			return fmt.Errorf("usage: mv <from> <to>")
		}
		return client.RenamePath(operands[0], operands[1])
	case "pull":
		return runPull(client, operands)
	case "push":
		return runPush(client, operands)
	default:
		flag.Usage()
		return fmt.Errorf("unknown verb %q", verb)
	}
}

func runUnary(operands []string, use string, op func(string) error) error {
	if len(operands) != 1 {
		return fmt.Errorf("usage: %s", use)
	}
	return op(operands[0])
}

func runList(client *afc.Client, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("usage: ls <dir>")
	}
	entries, err := client.ListDirectory(operands[0])
	if err != nil {
		return err
	}
	for _, name := range entries {
		if name == "." || name == ".." {
			continue
		}
		fmt.Println(name)
	}
	return nil
}

func runWalk(client *afc.Client, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("usage: walk <dir>")
	}
	return client.Walk(operands[0], true, func(entryPath string, isDir bool) error {
		if isDir {
			fmt.Printf("%s/\n", entryPath)
		} else {
			fmt.Println(entryPath)
		}
		return nil
	})
}

func runStat(client *afc.Client, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("usage: stat <path>")
	}
	info, err := client.GetFileInfo(operands[0])
	if err != nil {
		return err
	}
	fmt.Printf("type:     %s\n", info.Type)
	fmt.Printf("size:     %d\n", info.Size)
	fmt.Printf("blocks:   %d\n", info.Blocks)
	fmt.Printf("nlink:    %d\n", info.NLink)
	fmt.Printf("modified: %s\n", time.UnixMilli(info.ModifiedMs).UTC().Format(time.RFC3339))
	fmt.Printf("created:  %s\n", time.UnixMilli(info.CreatedMs).UTC().Format(time.RFC3339))
	return nil
}

func runInfo(client *afc.Client) error {
	pairs, err := client.GetDeviceInfo()
	if err != nil {
		return err
	}
	for k, v := range pairs {
		fmt.Printf("%s: %s\n", k, v)
	}
	return nil
}

func runPull(client *afc.Client, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("usage: pull <remote> <local>")
	}
	src, err := client.Open(operands[0], protocol.ModeReadOnly)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(operands[1])
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}

func runPush(client *afc.Client, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("usage: push <local> <remote>")
	}
	src, err := os.Open(operands[0])
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := client.Open(operands[1], protocol.ModeWriteTruncate)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}
