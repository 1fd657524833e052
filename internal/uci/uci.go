// Package uci implements the Universal Chess Interface loop.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hailam/ampersand/internal/board"
	"github.com/hailam/ampersand/internal/engine"
	"github.com/hailam/ampersand/internal/storage"
)

// Store persists finished searches and option changes.
type Store interface {
	RecordSearch(storage.SearchRecord) error
	SavePreferences(*storage.Preferences) error
}

// UCI runs the protocol for one engine.
type UCI struct {
	engine   *engine.Engine
	in       io.Reader
	out      io.Writer
	outMu    sync.Mutex
	position *board.Position

	store Store
	prefs *storage.Preferences

	// searchDone is closed when the running search has printed bestmove.
	// Only the command loop touches it.
	searchDone chan struct{}
}

// New creates a handler reading commands from in and replying on out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		in:       in,
		out:      out,
		position: board.NewPosition(),
		prefs:    storage.DefaultPreferences(),
	}
}

// UseStore applies prefs to the engine and records every later search and
// option change in s.
func (u *UCI) UseStore(s Store, prefs *storage.Preferences) {
	u.store = s
	if prefs != nil {
		u.prefs = prefs
	}
	u.engine.SetOptions(engine.Options{EvalNoise: u.prefs.EvalNoise, NoiseSeed: u.prefs.NoiseSeed})
}

// Run processes commands until quit or end of input. A search still
// running at that point is stopped first.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		log.Debug().Str("cmd", cmd).Strs("args", args).Msg("uci-command")

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			if u.engine.IsReady() {
				u.send("readyok")
			}
		case "ucinewgame":
			u.handleStop()
			u.position = board.NewPosition()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "setoption":
			u.handleSetOption(args)
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		case "quit":
			u.handleStop()
			return nil
		default:
			log.Warn().Str("cmd", cmd).Msg("unknown-command")
		}
	}
	u.handleStop()
	return scanner.Err()
}

func (u *UCI) send(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

func (u *UCI) handleUCI() {
	opts := u.engine.Options()
	u.send("id name %s", engine.Name)
	u.send("id author %s", engine.Author)
	u.send("option name EvalNoise type check default %t", opts.EvalNoise)
	u.send("option name NoiseSeed type spin default %d min 0 max 2147483647", opts.NoiseSeed)
	u.send("uciok")
}

// handlePosition accepts "startpos" or "fen <fields>", optionally followed
// by "moves". On a bad FEN the current position is kept; on a bad move the
// moves before it stay applied.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Position
	movesAt := slices.Index(args, "moves")
	if movesAt < 0 {
		movesAt = len(args)
	}

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			log.Error().Err(err).Msg("position-rejected")
			return
		}
	default:
		log.Warn().Str("arg", args[0]).Msg("position-unknown-form")
		return
	}

	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := board.ParseMove(s, pos)
			if err != nil {
				log.Error().Err(err).Str("move", s).Msg("position-move-rejected")
				break
			}
			pos.MakeMove(m)
		}
	}
	u.position = pos
}

// parseTimeControl reads the "go" arguments. Depth wins over movetime,
// which wins over nodes, which wins over a clock. No limits at all means
// an unbounded search that runs until stop.
func (u *UCI) parseTimeControl(args []string) engine.TimeControl {
	var (
		depth, moveTime, nodes int64
		clock, inc             [2]time.Duration
		haveClock              bool
	)

	next := func(i int) int64 {
		if i+1 >= len(args) {
			return 0
		}
		n, err := strconv.ParseInt(args[i+1], 10, 64)
		if err != nil {
			log.Warn().Str("arg", args[i]).Str("value", args[i+1]).Msg("go-bad-value")
			return 0
		}
		return n
	}
	ms := func(n int64) time.Duration { return time.Duration(n) * time.Millisecond }

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			depth = max(next(i), 1)
			i++
		case "movetime":
			moveTime = next(i)
			i++
		case "nodes":
			nodes = next(i)
			i++
		case "wtime":
			clock[board.White], haveClock = ms(next(i)), true
			i++
		case "btime":
			clock[board.Black], haveClock = ms(next(i)), true
			i++
		case "winc":
			inc[board.White] = ms(next(i))
			i++
		case "binc":
			inc[board.Black] = ms(next(i))
			i++
		case "infinite":
			// same as giving no limits
		}
	}

	switch {
	case depth > 0:
		return engine.Depth(int(depth))
	case moveTime > 0:
		return engine.MoveTime(ms(moveTime))
	case nodes > 0:
		return engine.Nodes(uint64(nodes))
	case haveClock:
		return engine.Clock(clock, inc)
	}
	return engine.Infinite()
}

func (u *UCI) handleGo(args []string) {
	if u.searching() {
		log.Warn().Msg("go-while-searching")
		return
	}

	tc := u.parseTimeControl(args)
	if !u.position.HasLegalMoves() {
		u.send("bestmove 0000")
		return
	}

	u.engine.OnInfo = u.sendInfo
	pos := u.position.Copy()
	done := make(chan struct{})
	u.searchDone = done

	go func() {
		defer close(done)
		res := u.engine.Search(pos, tc)
		u.send("bestmove %s", res.Move)
		u.record(pos, res)
	}()
}

func (u *UCI) searching() bool {
	if u.searchDone == nil {
		return false
	}
	select {
	case <-u.searchDone:
		return false
	default:
		return true
	}
}

// handleStop raises the stop flag until the search reports back. Search
// clears the flag when it starts, so a single Stop could be lost if it
// lands first.
func (u *UCI) handleStop() {
	done := u.searchDone
	if done == nil {
		return
	}
	for {
		u.engine.Stop()
		select {
		case <-done:
			u.searchDone = nil
			return
		case <-time.After(time.Millisecond):
		}
	}
}

func (u *UCI) record(pos *board.Position, res engine.Result) {
	if u.store == nil {
		return
	}
	err := u.store.RecordSearch(storage.SearchRecord{
		FEN:      pos.FEN(),
		BestMove: res.Move.String(),
		Score:    res.Score,
		Depth:    res.Depth,
		Nodes:    res.Nodes,
		Elapsed:  res.Time,
	})
	if err != nil {
		log.Warn().Err(err).Msg("record-search-failed")
	}
}

// FormatScore renders a score as "cp N" or "mate N".
func FormatScore(score int) string {
	if n, ok := engine.MateIn(score); ok {
		return fmt.Sprintf("mate %d", n)
	}
	return fmt.Sprintf("cp %d", score)
}

func (u *UCI) sendInfo(info engine.Info) {
	pv := lo.Map(info.PV, func(m board.Move, _ int) string { return m.String() })
	u.send("info depth %d score %s nodes %d nps %d time %d pv %s",
		info.Depth, FormatScore(info.Score), info.Nodes, info.NPS,
		info.Time.Milliseconds(), strings.Join(pv, " "))
}

// handleSetOption handles "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	if u.searching() {
		log.Warn().Msg("setoption-while-searching")
		return
	}

	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	key, val := strings.ToLower(strings.Join(name, " ")), strings.Join(value, " ")

	opts := u.engine.Options()
	switch key {
	case "evalnoise":
		b, err := strconv.ParseBool(val)
		if err != nil {
			log.Warn().Str("value", val).Msg("setoption-bad-bool")
			return
		}
		opts.EvalNoise = b
	case "noiseseed":
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			log.Warn().Str("value", val).Msg("setoption-bad-seed")
			return
		}
		opts.NoiseSeed = n
	default:
		log.Warn().Str("name", key).Msg("setoption-unknown")
		return
	}

	u.engine.SetOptions(opts)
	u.prefs.EvalNoise, u.prefs.NoiseSeed = opts.EvalNoise, opts.NoiseSeed
	if u.store != nil {
		if err := u.store.SavePreferences(u.prefs); err != nil {
			log.Warn().Err(err).Msg("save-preferences-failed")
		}
	}
}

func (u *UCI) handleDisplay() {
	u.send("%s", u.position)
	u.send("Fen: %s", u.position.FEN())
	u.send("Key: %016X", u.position.Hash)
	// the evaluator's noise source belongs to the running search
	if !u.searching() {
		u.send("Eval: %s", FormatScore(u.engine.Evaluate(u.position)))
	}
}

func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			log.Warn().Str("depth", args[0]).Msg("perft-bad-depth")
			return
		}
		depth = d
	}

	start := time.Now()
	counts := board.Divide(u.position, depth)
	elapsed := time.Since(start)

	moves := lo.Keys(counts)
	slices.SortFunc(moves, func(a, b board.Move) int { return strings.Compare(a.String(), b.String()) })
	var total uint64
	for _, m := range moves {
		u.send("%s: %d", m, counts[m])
		total += counts[m]
	}
	u.send("")
	u.send("Nodes: %d", total)
	u.send("Time: %v", elapsed.Round(time.Millisecond))
	u.send("NPS: %s", humanize.Comma(int64(nodesPerSecond(total, elapsed))))
}

func nodesPerSecond(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return nodes
	}
	return uint64(float64(nodes) / elapsed.Seconds())
}
