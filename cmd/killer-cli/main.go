// Command-line client for killer sudoku utilities: generate and
// inspect puzzles, verify archived ones, and play a game in the
// terminal.
package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/jovankoledin/killer.go/conf"
	"github.com/jovankoledin/killer.go/puzzle"
	"github.com/jovankoledin/killer.go/storage"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "killer-cli",
		Short:         "killer sudoku generation and verification tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newGenerateCommand())
	root.AddCommand(newVerifyCommand())
	root.AddCommand(newScoreCommand())
	root.AddCommand(newPlayCommand())
	return root
}

// parseGameFlags turns the shared difficulty/seed flags into
// session options.
func parseGameFlags(difficulty string, seed int64, seedSet bool) (puzzle.Difficulty, []puzzle.Option, error) {
	d, err := puzzle.ParseDifficulty(difficulty)
	if err != nil {
		return d, nil, err
	}
	var opts []puzzle.Option
	if seedSet {
		opts = append(opts, puzzle.WithSeed(seed))
	}
	return d, opts, nil
}

func newGenerateCommand() *cobra.Command {
	var (
		difficulty string
		seed       int64
		solution   bool
		archive    bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a puzzle and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, opts, err := parseGameFlags(difficulty, seed, cmd.Flags().Changed("seed"))
			if err != nil {
				return err
			}
			game, err := puzzle.NewSession(d, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "puzzle %s-%d\n", game.Difficulty(), game.Seed())
			if solution {
				fmt.Fprint(cmd.OutOrStdout(), game.SolutionString())
			} else {
				fmt.Fprint(cmd.OutOrStdout(), game.String())
			}
			if archive {
				cfg, err := conf.Load("killer.toml")
				if err != nil {
					return err
				}
				if _, _, err := storage.Connect(cfg); err != nil {
					return err
				}
				defer storage.Close()
				s := &storage.Session{SID: "cli-" + storage.Signature(game.Difficulty().String(), game.Seed())}
				s.AdoptGame(game)
				fmt.Fprintf(cmd.OutOrStdout(), "archived as %s\n",
					storage.Signature(game.Difficulty().String(), game.Seed()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "medium", "puzzle difficulty (medium or hard)")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "generation seed (default: from the clock)")
	cmd.Flags().BoolVar(&solution, "solution", false, "print the solution instead of the playable board")
	cmd.Flags().BoolVar(&archive, "archive", false, "store the generated puzzle in the archive")
	return cmd
}

func newVerifyCommand() *cobra.Command {
	var (
		difficulty string
		seed       int64
		count      int
		archived   bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Regenerate puzzles and check their invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be positive: %d", count)
			}
			d, _, err := parseGameFlags(difficulty, seed, true)
			if err != nil {
				return err
			}
			for s := seed; s < seed+int64(count); s++ {
				game, err := puzzle.NewSession(d, puzzle.WithSeed(s))
				if err != nil {
					return err
				}
				if err := verifyGame(game, d); err != nil {
					return fmt.Errorf("puzzle %s-%d: %v", d, s, err)
				}
				if archived {
					if err := verifyArchived(game); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "puzzle %s-%d verifies\n", game.Difficulty(), game.Seed())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "medium", "puzzle difficulty (medium or hard)")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "first generation seed")
	cmd.MarkFlagRequired("seed")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "how many consecutive seeds to verify")
	cmd.Flags().BoolVar(&archived, "archived", false, "also compare against the archived copy")
	return cmd
}

// verifyGame checks everything the generator promises: a valid
// solved grid, a complete cage partition with correct sums, cage
// sizes within the difficulty's bound, and edge-connected cages.
func verifyGame(game *puzzle.Session, d puzzle.Difficulty) error {
	solution := game.Solution()

	// rows, columns, and boxes each hold 1..9 exactly once
	for group := 0; group < puzzle.SideLength; group++ {
		var row, col, box [puzzle.SideLength + 1]int
		for i := 0; i < puzzle.SideLength; i++ {
			row[solution[group*puzzle.SideLength+i]]++
			col[solution[i*puzzle.SideLength+group]]++
			r := (group/puzzle.TileLength)*puzzle.TileLength + i/puzzle.TileLength
			c := (group%puzzle.TileLength)*puzzle.TileLength + i%puzzle.TileLength
			box[solution[r*puzzle.SideLength+c]]++
		}
		for v := 1; v <= puzzle.SideLength; v++ {
			if row[v] != 1 || col[v] != 1 || box[v] != 1 {
				return fmt.Errorf("group %d: value %d appears %d/%d/%d times in row/col/box",
					group, v, row[v], col[v], box[v])
			}
		}
	}

	// the cages partition the grid and their sums match
	maxSize := map[puzzle.Difficulty]int{puzzle.Medium: 3, puzzle.Hard: 5}[d]
	seen := make([]bool, puzzle.CellCount)
	for _, cage := range game.Cages() {
		if len(cage.Cells) < 1 || len(cage.Cells) > maxSize {
			return fmt.Errorf("cage %d has %d cells, outside 1..%d", cage.ID, len(cage.Cells), maxSize)
		}
		if !cageConnected(cage) {
			return fmt.Errorf("cage %d isn't edge-connected", cage.ID)
		}
		sum := 0
		for _, idx := range cage.Cells {
			if seen[idx] {
				return fmt.Errorf("cell %d appears in two cages", idx)
			}
			seen[idx] = true
			sum += solution[idx]
		}
		if sum != cage.Sum {
			return fmt.Errorf("cage %d sums to %d, labeled %d", cage.ID, sum, cage.Sum)
		}
	}
	for idx, ok := range seen {
		if !ok {
			return fmt.Errorf("cell %d belongs to no cage", idx)
		}
	}
	return nil
}

// cageConnected floods over 4-neighbor adjacency from the cage's
// first cell and reports whether every member was reached.
func cageConnected(cage puzzle.Cage) bool {
	inCage := make(map[int]bool, len(cage.Cells))
	for _, idx := range cage.Cells {
		inCage[idx] = true
	}
	seen := map[int]bool{cage.Cells[0]: true}
	queue := []int{cage.Cells[0]}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		row, col := idx/puzzle.SideLength, idx%puzzle.SideLength
		var neighbors []int
		if row > 0 {
			neighbors = append(neighbors, idx-puzzle.SideLength)
		}
		if row < puzzle.SideLength-1 {
			neighbors = append(neighbors, idx+puzzle.SideLength)
		}
		if col > 0 {
			neighbors = append(neighbors, idx-1)
		}
		if col < puzzle.SideLength-1 {
			neighbors = append(neighbors, idx+1)
		}
		for _, n := range neighbors {
			if inCage[n] && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(seen) == len(cage.Cells)
}

// verifyArchived compares the regenerated puzzle against its
// archive row.
func verifyArchived(game *puzzle.Session) error {
	cfg, err := conf.Load("killer.toml")
	if err != nil {
		return err
	}
	if _, _, err := storage.Connect(cfg); err != nil {
		return err
	}
	defer storage.Close()

	id := storage.Signature(game.Difficulty().String(), game.Seed())
	ap, found := storage.LoadArchived(id)
	if !found {
		return fmt.Errorf("puzzle %s was never archived", id)
	}
	if !reflect.DeepEqual(ap.Solution, game.Solution()) {
		return fmt.Errorf("archived solution of %s differs from the regenerated one", id)
	}
	if !reflect.DeepEqual(ap.Cages, game.Cages()) {
		return fmt.Errorf("archived cages of %s differ from the regenerated ones", id)
	}
	return nil
}

func newScoreCommand() *cobra.Command {
	var seconds int
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Show the score for a completion time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seconds < 0 {
				return fmt.Errorf("elapsed time can't be negative: %d", seconds)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", puzzle.Score(seconds))
			return nil
		},
	}
	cmd.Flags().IntVarP(&seconds, "seconds", "t", 0, "elapsed seconds from start to completion")
	cmd.MarkFlagRequired("seconds")
	return cmd
}
