package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"

	"turntable/host/console"
	"turntable/host/serial"
	"turntable/protocol"
)

var (
	device = flag.String("device", "", "Serial device path (default: first Pico found)")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	list   = flag.Bool("list", false, "List serial ports and exit")
)

func main() {
	flag.Parse()

	if *list {
		if err := listPorts(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Turntable-EX bench host " + protocol.Version)

	path, err := pickDevice(*device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := serial.DefaultConfig(path)
	cfg.Baud = *baud
	fmt.Printf("Connecting to %s...\n", path)
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	client := console.New(port)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := client.Stream(ctx, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if args[0] == "quit" || args[0] == "exit" || args[0] == "q" {
			fmt.Println("Goodbye!")
			return
		}
		if err := runCommand(client, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(client *console.Client, args []string) error {
	switch args[0] {
	case "help", "?":
		printHelp()
		return nil

	case "move":
		if len(args) < 2 || len(args) > 3 {
			return errors.New("usage: move <position> [phase]")
		}
		position, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrap(err, "position")
		}
		phase := 0
		if len(args) == 3 {
			if phase, err = strconv.Atoi(args[2]); err != nil {
				return errors.Wrap(err, "phase")
			}
		}
		return client.Move(position, phase)

	case "home":
		return client.Home()

	case "calibrate":
		return client.Calibrate()

	case "led":
		if len(args) != 2 {
			return errors.New("usage: led <on|slow|fast|off>")
		}
		return client.SetLED(args[1])

	case "acc":
		if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
			return errors.New("usage: acc <on|off>")
		}
		return client.SetAccessory(args[1] == "on")

	case "raw":
		if len(args) != 3 {
			return errors.New("usage: raw <position> <activity>")
		}
		position, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrap(err, "position")
		}
		activity, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrap(err, "activity")
		}
		return client.Send(position, activity)

	default:
		return errors.Errorf("unknown command: %s (type 'help' for available commands)", args[0])
	}
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  move <pos> [phase]  - Move to a step position")
	fmt.Println("  home                - Start homing")
	fmt.Println("  calibrate           - Erase the stored step count and calibrate")
	fmt.Println("  led <on|slow|fast|off>")
	fmt.Println("  acc <on|off>        - Switch the accessory output")
	fmt.Println("  raw <pos> <act>     - Send a raw activity code")
	fmt.Println("  help                - Show this help message")
	fmt.Println("  quit/exit/q         - Exit the program")
	fmt.Println()
}

func listPorts() error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}
	for _, p := range ports {
		desc := ""
		if p.IsUSB {
			desc = fmt.Sprintf(" USB %s:%s %s", p.VID, p.PID, strings.TrimSpace(p.Product))
		}
		if p.IsPico() {
			desc += " (pico)"
		}
		fmt.Println(p.Name + desc)
	}
	return nil
}

func pickDevice(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	ports, err := serial.ListPorts()
	if err != nil {
		return "", err
	}
	for _, p := range ports {
		if p.IsPico() {
			return p.Name, nil
		}
	}
	return "", errors.New("no Pico found, use -device")
}
