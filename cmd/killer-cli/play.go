package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jovankoledin/killer.go/puzzle"
	"github.com/spf13/cobra"
)

func newPlayCommand() *cobra.Command {
	var (
		difficulty string
		seed       int64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, opts, err := parseGameFlags(difficulty, seed, cmd.Flags().Changed("seed"))
			if err != nil {
				return err
			}
			game, err := puzzle.NewSession(d, opts...)
			if err != nil {
				return err
			}
			return listener(&playState{game: game}, cmd.OutOrStdout(), cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "medium", "puzzle difficulty (medium or hard)")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "generation seed (default: from the clock)")
	return cmd
}

/*

CLI listener

*/

// playState is the listener's view of the game in progress.
type playState struct {
	game *puzzle.Session
}

type request struct {
	inline  string
	command string
	args    []string
}

// listener reads lines and dispatches them to handlers
func listener(state *playState, out io.Writer, in io.Reader) error {
	// if we are on a terminal, we do prompting
	prompt := false
	if f, ok := out.(*os.File); ok {
		if stat, _ := f.Stat(); stat != nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			prompt = true
		}
	}

	fmt.Fprint(out, state.game.String())
	input := make([]byte, 4096)
	for {
		if prompt {
			fmt.Fprintf(out, "killer> ")
		}
		n, err := in.Read(input)
		switch err {
		case nil:
			r := &request{inline: strings.Trim(string(input[:n]), " \t\r\n")}
			args := strings.Split(r.inline, " ")
			r.command = strings.ToLower(args[0])
			switch r.command {
			case "":
				continue
			case "quit", "exit":
				return nil
			}
			for _, arg := range args[1:] {
				if len(arg) > 0 {
					r.args = append(r.args, strings.ToLower(arg))
				}
			}
			dispatchCommand(state, out, r)
		case io.EOF:
			// ignore any input before the EOF
			if prompt {
				fmt.Fprintf(out, " (EOF)\n")
			}
			return nil
		default:
			if prompt {
				fmt.Fprintf(out, " (read error)\n")
			}
			return err
		}
	}
}

// command dispatching
type commandInfo struct {
	command     string
	argInfo     string
	description string
	handler     func(*playState, io.Writer, *request)
}

// the command dispatch info is sorted for easy usage printing,
// and then hashed for rapid dispatching
var (
	dispatchInfo  []commandInfo
	dispatchTable map[string]*commandInfo
)

func init() {
	dispatchInfo = []commandInfo{
		{"assign", "index value", "enter a value in a cell", assignHandler},
		{"cages", "", "list the cages and their target sums", cagesHandler},
		{"clear", "index", "empty a cell", clearHandler},
		{"help", "", "show this list", helpHandler},
		{"new", "[difficulty [seed]]", "start a fresh game", newHandler},
		{"score", "", "show the score of a finished game", scoreHandler},
		{"state", "", "show the current board", stateHandler},
	}
	dispatchTable = make(map[string]*commandInfo, len(dispatchInfo))
	for i := range dispatchInfo {
		dispatchTable[dispatchInfo[i].command] = &dispatchInfo[i]
	}
}

func dispatchCommand(state *playState, out io.Writer, r *request) {
	if ci, ok := dispatchTable[r.command]; ok {
		ci.handler(state, out, r)
	} else {
		fmt.Fprintf(out, "unknown command %q; try \"help\"\n", r.command)
	}
}

/*

command handlers

*/

func assignHandler(state *playState, out io.Writer, r *request) {
	if len(r.args) != 2 {
		fmt.Fprintln(out, "usage: assign index value")
		return
	}
	idx, e1 := strconv.Atoi(r.args[0])
	val, e2 := strconv.Atoi(r.args[1])
	if e1 != nil || e2 != nil {
		fmt.Fprintln(out, "index and value must be numbers")
		return
	}
	if !state.game.SetCell(idx, val) {
		fmt.Fprintf(out, "can't assign %d to cell %d\n", val, idx)
		return
	}
	fmt.Fprint(out, state.game.String())
	if state.game.Complete() {
		score, _ := state.game.Score()
		fmt.Fprintf(out, "solved! score: %d\n", score)
	}
}

func clearHandler(state *playState, out io.Writer, r *request) {
	if len(r.args) != 1 {
		fmt.Fprintln(out, "usage: clear index")
		return
	}
	idx, e := strconv.Atoi(r.args[0])
	if e != nil {
		fmt.Fprintln(out, "index must be a number")
		return
	}
	if !state.game.ClearCell(idx) {
		fmt.Fprintf(out, "can't clear cell %d\n", idx)
		return
	}
	fmt.Fprint(out, state.game.String())
}

func newHandler(state *playState, out io.Writer, r *request) {
	var opts []puzzle.Option
	difficulty := ""
	if len(r.args) > 0 {
		difficulty = r.args[0]
	}
	if len(r.args) > 1 {
		seed, e := strconv.ParseInt(r.args[1], 10, 64)
		if e != nil {
			fmt.Fprintln(out, "seed must be a number")
			return
		}
		opts = append(opts, puzzle.WithSeed(seed))
	}
	d, e := puzzle.ParseDifficulty(difficulty)
	if e != nil {
		fmt.Fprintf(out, "unknown difficulty %q\n", difficulty)
		return
	}
	game, e := puzzle.NewSession(d, opts...)
	if e != nil {
		fmt.Fprintf(out, "generation failed: %v\n", e)
		return
	}
	state.game = game
	fmt.Fprintf(out, "new %s game, seed %d\n", game.Difficulty(), game.Seed())
	fmt.Fprint(out, game.String())
}

func stateHandler(state *playState, out io.Writer, r *request) {
	fmt.Fprint(out, state.game.String())
}

func cagesHandler(state *playState, out io.Writer, r *request) {
	fmt.Fprint(out, state.game.CagesString())
}

func scoreHandler(state *playState, out io.Writer, r *request) {
	score, ok := state.game.Score()
	if !ok {
		fmt.Fprintln(out, "the game isn't finished yet")
		return
	}
	fmt.Fprintf(out, "score: %d\n", score)
}

func helpHandler(state *playState, out io.Writer, r *request) {
	for _, ci := range dispatchInfo {
		fmt.Fprintf(out, "  %-8s %-20s %s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(out, "  %-8s %-20s %s\n", "quit", "", "leave the game")
}
