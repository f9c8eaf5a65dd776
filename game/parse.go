package game

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadDefinition parses the ACPC game definition text format:
//
//	GAMEDEF
//	nolimit
//	numPlayers = 3
//	numRounds = 4
//	stack = 20000 20000 20000
//	blind = 50 100 0
//	firstPlayer = 3 1 1 1
//	numHoleCards = 2
//	numBoardCards = 0 3 1 1
//	END GAMEDEF
//
// Keys are case-insensitive and lines starting with '#' are comments.
// firstPlayer values are 1-based in the file, matching the reference
// format. Omitted fields take the reference defaults.
func ReadDefinition(r io.Reader) (*Definition, error) {
	cfg := DefinitionConfig{
		BettingType: LimitBetting,
	}
	sawGamedef := false
	sawEnd := false

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case lower == "gamedef":
			sawGamedef = true
			continue
		case lower == "end gamedef":
			sawEnd = true
		case lower == "limit":
			cfg.BettingType = LimitBetting
			continue
		case lower == "nolimit" || lower == "no-limit" || lower == "no limit":
			cfg.BettingType = NoLimitBetting
			continue
		}
		if sawEnd {
			break
		}

		key, values, err := splitField(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		switch strings.ToLower(key) {
		case "numplayers":
			cfg.NumPlayers, err = one(values)
		case "numrounds":
			cfg.NumRounds, err = one(values)
		case "numholecards":
			cfg.NumHoleCards, err = one(values)
		case "stack":
			cfg.Stacks = values
		case "blind":
			cfg.Blinds = values
		case "raisesize":
			cfg.RaiseSizes = values
		case "maxraises":
			cfg.MaxRaises = values
		case "firstplayer":
			seats := make([]int, len(values))
			for i, v := range values {
				seats[i] = v - 1 // 1-based in the file
			}
			cfg.FirstPlayers = seats
		case "numboardcards":
			cfg.NumBoardCards = values
		case "numsuits", "numranks":
			// Deck shape is fixed at 52 cards here; accepted and ignored
			// so stock ACPC files parse.
		default:
			return nil, fmt.Errorf("line %d: unknown field %q", lineNum, key)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !sawGamedef {
		return nil, fmt.Errorf("missing GAMEDEF header")
	}
	if !sawEnd {
		return nil, fmt.Errorf("missing END GAMEDEF")
	}

	return NewDefinition(cfg)
}

// LoadDefinition reads a game definition from a file.
func LoadDefinition(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	def, err := ReadDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func splitField(line string) (string, []int, error) {
	key, rest, found := strings.Cut(line, "=")
	if !found {
		return "", nil, fmt.Errorf("expected \"field = values\", got %q", line)
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no values for field %q", strings.TrimSpace(key))
	}

	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return "", nil, fmt.Errorf("bad value %q for field %q", f, strings.TrimSpace(key))
		}
		values[i] = v
	}

	return strings.TrimSpace(key), values, nil
}

func one(values []int) (int, error) {
	if len(values) != 1 {
		return 0, fmt.Errorf("expected a single value, got %d", len(values))
	}
	return values[0], nil
}
