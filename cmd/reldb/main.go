package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	mindb "github.com/vanutp/relational-db"
	"github.com/vanutp/relational-db/internal/dbconfig"
	"github.com/vanutp/relational-db/internal/dblog"
)

func main() {
	cfg := dbconfig.LoadFromEnv()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		dblog.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	} else {
		dblog.SetOutput(os.Stderr)
	}
	dblog.SetLevel(level)

	fmt.Println("reldb - a minimal slotted-page relational database")
	fmt.Println("Type 'exit' or 'quit' to exit. Multi-line statements are supported - end with ';'")

	catalog, err := openOrInitCatalog(cfg.StorageDir)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Storage directory: %s\n\n", cfg.StorageDir)

	engine := mindb.NewEngine(catalog)

	stdinStat, _ := os.Stdin.Stat()
	isPiped := (stdinStat.Mode() & os.ModeCharDevice) == 0
	if isPiped {
		runBasicMode(engine)
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "reldb> ",
		HistoryFile:     "/tmp/reldb_history.txt",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		runBasicMode(engine)
		return
	}
	defer rl.Close()

	var statementBuffer strings.Builder
	isMultiLine := false

	for {
		if isMultiLine {
			rl.SetPrompt("    -> ")
		} else {
			rl.SetPrompt("reldb> ")
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if statementBuffer.Len() == 0 {
					fmt.Println("Goodbye!")
					break
				}
				statementBuffer.Reset()
				isMultiLine = false
				continue
			} else if err == io.EOF {
				fmt.Println("Goodbye!")
				break
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if !isMultiLine {
			if strings.HasPrefix(trimmed, "--") {
				continue
			}
			if trimmed == "exit" || trimmed == "quit" {
				fmt.Println("Goodbye!")
				break
			}
			if trimmed == "" {
				continue
			}
		} else if strings.HasPrefix(trimmed, "--") {
			continue
		}

		if statementBuffer.Len() > 0 {
			statementBuffer.WriteString(" ")
		}
		statementBuffer.WriteString(line)

		current := strings.TrimSpace(statementBuffer.String())
		if strings.HasSuffix(current, ";") {
			statementBuffer.Reset()
			isMultiLine = false
			executeStatement(engine, current)
		} else {
			isMultiLine = true
		}
	}
}

func executeStatement(engine *mindb.Engine, input string) {
	result, err := engine.Execute(input)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(result)
}

func runBasicMode(engine *mindb.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	var statementBuffer strings.Builder
	isMultiLine := false

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if !isMultiLine {
			if strings.HasPrefix(trimmed, "--") {
				continue
			}
			if trimmed == "exit" || trimmed == "quit" {
				break
			}
			if trimmed == "" {
				continue
			}
		} else if strings.HasPrefix(trimmed, "--") {
			continue
		}

		if statementBuffer.Len() > 0 {
			statementBuffer.WriteString(" ")
		}
		statementBuffer.WriteString(line)

		current := strings.TrimSpace(statementBuffer.String())
		if strings.HasSuffix(current, ";") {
			statementBuffer.Reset()
			isMultiLine = false
			executeStatement(engine, current)
		} else {
			isMultiLine = true
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
	}
}

func openOrInitCatalog(dir string) (*mindb.Catalog, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return mindb.InitCatalog(dir)
	}
	return mindb.LoadCatalog(dir)
}
